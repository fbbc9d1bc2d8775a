package configs

import (
	"encoding/base64"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/gorilla/securecookie"
	"go.uber.org/zap"
)

type SessionKeys struct {
	AuthKey []byte
	EncKey  []byte
	CSRFKey []byte
}

// LoadSessionKeys decodes the cookie and CSRF keys. Outside production a
// missing key is replaced by a random one, which logs everyone out on restart.
func LoadSessionKeys(env ENV, logger *zap.Logger) (*SessionKeys, error) {
	authKey, err := decodeKey("APP_AUTH_KEY", env.AppAuthKey, 64, env, logger)
	if err != nil {
		return nil, err
	}
	encKey, err := decodeKey("APP_ENC_KEY", env.AppEncKey, 32, env, logger)
	if err != nil {
		return nil, err
	}
	if len(encKey) != 16 && len(encKey) != 24 && len(encKey) != 32 {
		return nil, fmt.Errorf("APP_ENC_KEY has invalid length %d after decoding. Must be 16, 24, or 32 bytes for AES encryption", len(encKey))
	}
	csrfKey, err := decodeKey("CSRF_KEY", env.CSRFKey, 32, env, logger)
	if err != nil {
		return nil, err
	}
	if len(csrfKey) != 32 {
		return nil, fmt.Errorf("CSRF_KEY has invalid length %d after decoding. Must be 32 bytes", len(csrfKey))
	}

	logger.Info("LoadSessionKeys: session keys loaded")
	return &SessionKeys{AuthKey: authKey, EncKey: encKey, CSRFKey: csrfKey}, nil
}

func decodeKey(name, value string, size int, env ENV, logger *zap.Logger) ([]byte, error) {
	if value == "" {
		if env.IsProduction() {
			return nil, fmt.Errorf("%s environment variable not set", name)
		}
		logger.Warn("LoadSessionKeys: key not set, using a random one", zap.String("key", name))
		return securecookie.GenerateRandomKey(size), nil
	}
	key, err := base64.URLEncoding.DecodeString(value)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s from Base64: %w", name, err)
	}
	return key, nil
}

// GenerateSessionKeys prints a fresh key set to out and writes it to path.
func GenerateSessionKeys(out io.Writer, path string) error {
	keys := []struct {
		name string
		size int
	}{
		{"APP_AUTH_KEY", 64},
		{"APP_ENC_KEY", 32},
		{"CSRF_KEY", 32},
	}

	lines := ""
	for _, k := range keys {
		key := securecookie.GenerateRandomKey(k.size)
		if key == nil {
			return fmt.Errorf("could not generate %s", k.name)
		}
		lines += fmt.Sprintf("%s=%s\n", k.name, base64.URLEncoding.EncodeToString(key))
	}

	fmt.Fprintln(out, "================================================")
	fmt.Fprint(out, lines)
	fmt.Fprintln(out, "================================================")

	if path == "" {
		return nil
	}
	fullPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to get absolute path for %s: %w", path, err)
	}
	if err := os.WriteFile(fullPath, []byte(lines), 0o600); err != nil {
		return fmt.Errorf("failed to write keys to file %s: %w", fullPath, err)
	}
	fmt.Fprintf(out, "Keys have been written to %s. Copy them into your .env file; regenerating invalidates existing sessions.\n", fullPath)
	return nil
}
