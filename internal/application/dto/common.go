package dto

// ErrorResponse cuerpo de error HTTP: {"error": "<motivo>"}.
// Code es opcional y permite a los clientes distinguir el caso sin parsear el mensaje.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}
