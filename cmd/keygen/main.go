// Command keygen generates the RSA key pair used for token signing and
// writes it as two PEM files.
package main

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
)

const keyBits = 2048

func main() {
	var (
		privatePath = flag.String("private", "keys/private.pem", "path to write the private key")
		publicPath  = flag.String("public", "keys/public.pem", "path to write the public key")
	)
	flag.Parse()

	if err := run(*privatePath, *publicPath); err != nil {
		log.Fatalf("keygen: %v", err)
	}

	fmt.Printf("Wrote %s and %s\n", *privatePath, *publicPath)
}

func run(privatePath, publicPath string) error {
	key, err := rsa.GenerateKey(rand.Reader, keyBits)
	if err != nil {
		return fmt.Errorf("generate key: %w", err)
	}

	privatePEM := pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(key),
	})

	publicDER, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	if err != nil {
		return fmt.Errorf("marshal public key: %w", err)
	}
	publicPEM := pem.EncodeToMemory(&pem.Block{
		Type:  "PUBLIC KEY",
		Bytes: publicDER,
	})

	if err := os.MkdirAll(filepath.Dir(privatePath), 0o755); err != nil {
		return fmt.Errorf("create key directory: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(publicPath), 0o755); err != nil {
		return fmt.Errorf("create key directory: %w", err)
	}

	// The private key must not be world-readable.
	if err := os.WriteFile(privatePath, privatePEM, 0o600); err != nil {
		return fmt.Errorf("write private key: %w", err)
	}
	if err := os.WriteFile(publicPath, publicPEM, 0o644); err != nil {
		return fmt.Errorf("write public key: %w", err)
	}

	return nil
}
