package utils

import (
	"strings"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

const skuCharacters = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

func GenerateID() (string, error) {
	return gonanoid.Generate(skuCharacters, 6)
}

// GenerateSKU gera um código curto prefixado com as três primeiras letras do nome
func GenerateSKU(name string) (string, error) {
	id, err := GenerateID()
	if err != nil {
		return "", err
	}

	prefix := strings.ToUpper(strings.Join(strings.Fields(name), ""))
	prefix = strings.Map(func(r rune) rune {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			return r
		}
		return -1
	}, prefix)
	if len(prefix) > 3 {
		prefix = prefix[:3]
	}
	if prefix == "" {
		return id, nil
	}

	return prefix + "-" + id, nil
}
