// Package csvio converte entre listas de registros chave/valor e texto CSV.
//
// O formato é o simplificado usado pelo front-end: separador vírgula, linha de
// cabeçalho, aspas duplas apenas em valores que contêm vírgula. Não há escape
// de aspas nem de quebras de linha dentro dos valores, e a leitura não entende
// campos entre aspas que contenham vírgula.
package csvio

import "strings"

type Field struct {
	Key   string
	Value string
}

// Record é uma linha ordenada de chave/valor
type Record []Field

func (r Record) Get(key string) (string, bool) {
	for _, field := range r {
		if field.Key == key {
			return field.Value, true
		}
	}
	return "", false
}

func (r Record) Keys() []string {
	keys := make([]string, 0, len(r))
	for _, field := range r {
		keys = append(keys, field.Key)
	}
	return keys
}

// Map devolve os campos não vazios, pronto para decodificar em um esquema
func (r Record) Map() map[string]any {
	values := make(map[string]any, len(r))
	for _, field := range r {
		if field.Value == "" {
			continue
		}
		values[field.Key] = field.Value
	}
	return values
}

// ToCSV usa as chaves do primeiro registro como cabeçalho
func ToCSV(records []Record) string {
	if len(records) == 0 {
		return ""
	}

	header := records[0].Keys()
	lines := make([]string, 0, len(records)+1)
	lines = append(lines, strings.Join(header, ","))

	for _, record := range records {
		values := make([]string, 0, len(header))
		for _, key := range header {
			value, _ := record.Get(key)
			values = append(values, quote(value))
		}
		lines = append(lines, strings.Join(values, ","))
	}

	return strings.Join(lines, "\n")
}

// FromCSV lê o texto linha a linha. Linhas com mais valores que o cabeçalho
// têm os excedentes ignorados; com menos, as chaves restantes ficam vazias.
func FromCSV(text string) []Record {
	lines := nonEmptyLines(text)
	if len(lines) == 0 {
		return []Record{}
	}

	header := splitLine(lines[0])
	records := make([]Record, 0, len(lines)-1)

	for _, line := range lines[1:] {
		values := splitLine(line)
		record := make(Record, 0, len(header))
		for i, key := range header {
			value := ""
			if i < len(values) {
				value = values[i]
			}
			record = append(record, Field{Key: key, Value: value})
		}
		records = append(records, record)
	}

	return records
}

func quote(value string) string {
	if strings.Contains(value, ",") {
		return `"` + value + `"`
	}
	return value
}

func nonEmptyLines(text string) []string {
	raw := strings.Split(text, "\n")
	lines := make([]string, 0, len(raw))
	for _, line := range raw {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

func splitLine(line string) []string {
	parts := strings.Split(line, ",")
	values := make([]string, 0, len(parts))
	for _, part := range parts {
		values = append(values, unquote(strings.TrimSpace(part)))
	}
	return values
}

func unquote(value string) string {
	if len(value) >= 2 && strings.HasPrefix(value, `"`) && strings.HasSuffix(value, `"`) {
		return value[1 : len(value)-1]
	}
	return value
}
