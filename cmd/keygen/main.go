package main

import (
	"crypto/rand"
	"encoding/hex"
	"flag"
	"fmt"
	"log"
)

// keygen prints fresh secrets for the .env file: the AES-256 session
// encryption key and a JWT signing secret.

// AES-256 needs exactly 32 bytes, 64 hex chars.
const sessionKeyHexLen = 64

func main() {
	hexLen := flag.Int("hex-len", 64, "jwt secret hex length (must be even)")
	flag.Parse()

	if err := validateHexLen(*hexLen); err != nil {
		log.Fatal(err)
	}

	sessionKey, jwtSecret, err := buildSecrets(*hexLen)
	if err != nil {
		log.Fatalf("failed to generate secrets: %v", err)
	}

	fmt.Println("Generated secrets")
	fmt.Printf("SESSION_ENCRYPTION_KEY=%s\n", sessionKey)
	fmt.Printf("JWT_SECRET=%s\n", jwtSecret)
}

func validateHexLen(n int) error {
	if n <= 0 || n%2 != 0 {
		return fmt.Errorf("invalid hex-len: %d (must be positive and even)", n)
	}
	return nil
}

func buildSecrets(jwtHexLen int) (string, string, error) {
	sessionKey, err := generateRandomHex(sessionKeyHexLen)
	if err != nil {
		return "", "", err
	}
	jwtSecret, err := generateRandomHex(jwtHexLen)
	if err != nil {
		return "", "", err
	}
	return sessionKey, jwtSecret, nil
}

func generateRandomHex(n int) (string, error) {
	buf := make([]byte, n/2)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
