package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ReadSecret читает секрет из файла в каталоге Docker Secrets.
// Если файла нет, используется переменная окружения envFallback (когда она задана).
func ReadSecret(dir, secretName, envFallback string) (string, error) {
	filePath := filepath.Join(dir, secretName)
	secretBytes, err := os.ReadFile(filePath)
	if err == nil {
		secret := strings.TrimSpace(string(secretBytes))
		if secret == "" {
			return "", fmt.Errorf("secret file %s is empty", filePath)
		}
		return secret, nil
	}

	if envFallback != "" {
		if v := strings.TrimSpace(os.Getenv(envFallback)); v != "" {
			return v, nil
		}
	}
	return "", fmt.Errorf("failed to read secret file %s (and %s is not set): %w", filePath, envFallback, err)
}
