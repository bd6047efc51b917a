package database

import (
	"encoding/json"
	"reflect"
)

// JSONB converte v para o parâmetro de uma coluna JSONB. Ponteiros nulos viram NULL.
// O lib/pq envia []byte como bytea, por isso o valor segue como string.
func JSONB(v interface{}) (interface{}, error) {
	if v == nil {
		return nil, nil
	}
	if rv := reflect.ValueOf(v); rv.Kind() == reflect.Ptr && rv.IsNil() {
		return nil, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// ScanJSONB decodifica o conteúdo de uma coluna JSONB lida como []byte. NULL mantém dst intacto.
func ScanJSONB(src []byte, dst interface{}) error {
	if len(src) == 0 {
		return nil
	}
	return json.Unmarshal(src, dst)
}
