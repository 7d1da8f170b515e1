package csvio

import (
	"fmt"
	"time"

	"github.com/mitchellh/mapstructure"
)

// Decode preenche out (ponteiro para struct com tags mapstructure) com os valores do registro.
// Os valores chegam como texto e são convertidos de forma permissiva; campos vazios ficam com o zero value.
// Datas usam o formato AAAA-MM-DD.
func Decode(record Record, out any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       mapstructure.StringToTimeHookFunc(time.DateOnly),
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return fmt.Errorf("erro ao criar decoder: %w", err)
	}

	return decoder.Decode(record.Map())
}
