package entity

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/product-enricher/internal/domain"
)

// ValueKind clasifica el valor de un campo del producto.
type ValueKind int

const (
	KindOther ValueKind = iota // null, arreglo u objeto
	KindString
	KindNumber
	KindBool
)

func (k ValueKind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "boolean"
	default:
		return "other"
	}
}

// Value es el valor de un campo del registro: String, Number, Bool u Other.
// Other conserva el JSON crudo (null, arreglos, objetos).
type Value struct {
	Kind ValueKind
	Str  string
	Num  decimal.Decimal
	Bool bool
	Raw  json.RawMessage
}

// StringValue construye un Value de tipo string.
func StringValue(s string) Value { return Value{Kind: KindString, Str: s} }

// NumberValue construye un Value numérico.
func NumberValue(d decimal.Decimal) Value { return Value{Kind: KindNumber, Num: d} }

// BoolValue construye un Value booleano.
func BoolValue(b bool) Value { return Value{Kind: KindBool, Bool: b} }

// IsScalar indica si el valor es string, número o booleano.
func (v Value) IsScalar() bool {
	return v.Kind == KindString || v.Kind == KindNumber || v.Kind == KindBool
}

// Text devuelve la representación textual de un escalar. Para Other devuelve "".
func (v Value) Text() string {
	switch v.Kind {
	case KindString:
		return v.Str
	case KindNumber:
		return v.Num.String()
	case KindBool:
		return strconv.FormatBool(v.Bool)
	default:
		return ""
	}
}

// Truthy replica la semántica de "valor presente": "", 0, false y null no aportan nada.
func (v Value) Truthy() bool {
	switch v.Kind {
	case KindString:
		return v.Str != ""
	case KindNumber:
		return !v.Num.IsZero()
	case KindBool:
		return v.Bool
	default:
		return len(v.Raw) > 0 && !bytes.Equal(bytes.TrimSpace(v.Raw), []byte("null"))
	}
}

// Elements decodifica un valor Other que contiene un arreglo JSON.
// Devuelve false si no es un arreglo.
func (v Value) Elements() ([]Value, bool) {
	if v.Kind != KindOther {
		return nil, false
	}
	var items []json.RawMessage
	if err := json.Unmarshal(v.Raw, &items); err != nil {
		return nil, false
	}
	out := make([]Value, 0, len(items))
	for _, item := range items {
		val, err := parseValue(item)
		if err != nil {
			return nil, false
		}
		out = append(out, val)
	}
	return out, true
}

// MarshalJSON serializa el valor con su forma JSON original.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case KindString:
		return json.Marshal(v.Str)
	case KindNumber:
		return []byte(v.Num.String()), nil
	case KindBool:
		return json.Marshal(v.Bool)
	default:
		if len(v.Raw) == 0 {
			return []byte("null"), nil
		}
		return v.Raw, nil
	}
}

// UnmarshalJSON acepta cualquier valor JSON y lo clasifica por su tipo.
func (v *Value) UnmarshalJSON(data []byte) error {
	val, err := parseValue(data)
	if err != nil {
		return err
	}
	*v = val
	return nil
}

func parseValue(raw json.RawMessage) (Value, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return Value{}, fmt.Errorf("valor vacío")
	}
	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return Value{}, err
		}
		return StringValue(s), nil
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(trimmed, &b); err != nil {
			return Value{}, err
		}
		return BoolValue(b), nil
	case '{', '[', 'n':
		return Value{Kind: KindOther, Raw: append(json.RawMessage(nil), trimmed...)}, nil
	default:
		d, err := decimal.NewFromString(string(trimmed))
		if err != nil {
			return Value{}, fmt.Errorf("número inválido %q: %w", trimmed, err)
		}
		return NumberValue(d), nil
	}
}

// Field es un par clave/valor del producto.
type Field struct {
	Key   string
	Value Value
}

// Product es el registro de producto recibido en la petición: esquema abierto,
// claves en el orden en que llegaron. Vive solo durante una petición.
type Product struct {
	fields []Field
	index  map[string]int
}

// NewProduct construye un producto a partir de campos ordenados.
// Una clave repetida reemplaza el valor conservando la primera posición.
func NewProduct(fields ...Field) *Product {
	p := &Product{index: make(map[string]int, len(fields))}
	for _, f := range fields {
		p.Set(f.Key, f.Value)
	}
	return p
}

// Set asigna un campo.
func (p *Product) Set(key string, v Value) {
	if p.index == nil {
		p.index = make(map[string]int)
	}
	if i, ok := p.index[key]; ok {
		p.fields[i].Value = v
		return
	}
	p.index[key] = len(p.fields)
	p.fields = append(p.fields, Field{Key: key, Value: v})
}

// Get devuelve el valor de un campo y si existe.
func (p *Product) Get(key string) (Value, bool) {
	if p == nil {
		return Value{}, false
	}
	i, ok := p.index[key]
	if !ok {
		return Value{}, false
	}
	return p.fields[i].Value, true
}

// Fields devuelve los campos en su orden natural.
func (p *Product) Fields() []Field {
	if p == nil {
		return nil
	}
	out := make([]Field, len(p.fields))
	copy(out, p.fields)
	return out
}

// Len número de campos.
func (p *Product) Len() int {
	if p == nil {
		return 0
	}
	return len(p.fields)
}

// UnmarshalJSON decodifica un objeto JSON preservando el orden de las claves.
// Si el JSON es válido pero no es un objeto devuelve domain.ErrNotAnObject.
func (p *Product) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		if !json.Valid(data) {
			return fmt.Errorf("JSON inválido")
		}
		return domain.ErrNotAnObject
	}

	p.fields = nil
	p.index = make(map[string]int)
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("clave inesperada %v", keyTok)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return err
		}
		val, err := parseValue(raw)
		if err != nil {
			return err
		}
		p.Set(key, val)
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	if dec.More() {
		return fmt.Errorf("datos adicionales después del objeto")
	}
	return nil
}

// MarshalJSON serializa el producto respetando el orden de las claves.
func (p *Product) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range p.Fields() {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(f.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		v, err := f.Value.MarshalJSON()
		if err != nil {
			return nil, err
		}
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
