package config

import (
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/ilyakaznacheev/cleanenv"
)

var errEmptySigningKey = errors.New("signing key decodes to no key material")

type Reader interface {
	Read() (*Config, error)
}

type EnvReader struct{}

func NewEnvReader() EnvReader {
	return EnvReader{}
}

func (EnvReader) Read() (*Config, error) {
	cfg := new(Config)
	err := cleanenv.ReadEnv(cfg)
	if err != nil {
		return nil, err
	}

	// A malformed signing key must stop the process at startup
	// rather than fail every request at runtime.
	cfg.JWT.SigningKey, err = base64.RawURLEncoding.DecodeString(cfg.JWT.SigningKeyBase64)
	if err != nil {
		return nil, fmt.Errorf("failed to decode jwt signing key: %w", err)
	}
	if len(cfg.JWT.SigningKey) == 0 {
		return nil, errEmptySigningKey
	}

	return cfg, nil
}
