package keytool

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
)

var (
	ErrFingerprintNotFound = errors.New("sha256 cert fingerprint not found")
)

// Command represents the path to an `keytool` executable.
type Command string

func (c Command) String() string {
	return string(c)
}

// SHA256CertFingerprints returns the SHA-256 fingerprint of the
// certificate that signed the .apk or .jar at name.
func (c Command) SHA256CertFingerprints(ctx context.Context, name string) (string, error) {
	//nolint:gosec
	return c.fingerprint(exec.CommandContext(ctx, c.String(), "-printcert", "-jarfile", name))
}

// KeyFingerprint returns the SHA-256 fingerprint of the certificate of the
// entry alias in the key store at keyStore. It errors if the key store cannot
// be opened with storePassword or if it has no such entry.
func (c Command) KeyFingerprint(ctx context.Context, keyStore, storePassword, alias string) (string, error) {
	//nolint:gosec
	cmd := exec.CommandContext(ctx, c.String(), "-list", "-v", "-keystore", keyStore, "-alias", alias, "-storepass:env", storePassEnv)
	cmd.Env = append(cmd.Environ(), storePassEnv+"="+storePassword)
	return c.fingerprint(cmd)
}

const storePassEnv = "APPDESC_KEYTOOL_STOREPASS"

func (c Command) fingerprint(cmd *exec.Cmd) (string, error) {
	var (
		stdout = new(bytes.Buffer)
		stderr = new(bytes.Buffer)
	)

	cmd.Stdout = stdout
	cmd.Stderr = stderr

	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String() + stdout.String()); msg != "" {
			return "", fmt.Errorf("%s: %w: %s", c, err, msg)
		}

		return "", fmt.Errorf("%s: %w", c, err)
	}

	return ParseSHA256CertFingerprint(stdout)
}

// ParseSHA256CertFingerprint scans `keytool` output for
// the first SHA-256 certificate fingerprint.
func ParseSHA256CertFingerprint(r io.Reader) (string, error) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.Contains(line, "SHA256: ") {
			if fields := strings.Fields(line); len(fields) >= 2 {
				return fields[1], nil
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return "", err
	}

	return "", ErrFingerprintNotFound
}
