// SPDX-FileCopyrightText: Copyright 2023 Prasad Tengse
// SPDX-License-Identifier: MIT

// Package testkeys generates ephemeral test keys.
//
// Generated keys are unique per execution of the binary and are generated
// on demand. PEM helpers return keys in the formats GitHub hands out
// (PKCS#1) and the formats a user might convert them to (PKCS#8).
//
// DO NOT USE THESE KEYS OUTSIDE OF UNIT TESTING.
package testkeys

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"sync"
)

var (
	rsa2048Once   sync.Once
	ecdsaP256Once sync.Once
)

var (
	rsa2048Private   *rsa.PrivateKey
	ecdsaP256Private *ecdsa.PrivateKey
)

// Ephemeral RSA-2048 key which is unique per execution of the binary.
func RSA2048() *rsa.PrivateKey {
	rsa2048Once.Do(func() {
		rsa2048Private, _ = rsa.GenerateKey(rand.Reader, 2048)
	})
	return rsa2048Private
}

// Ephemeral ECDSA-P256 key which is unique per execution of the binary.
func ECP256() *ecdsa.PrivateKey {
	ecdsaP256Once.Do(func() {
		ecdsaP256Private, _ = ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	})
	return ecdsaP256Private
}

// RSA2048PKCS1 returns [RSA2048] as PEM encoded PKCS#1 private key.
// This is the format of private keys generated by GitHub.
func RSA2048PKCS1() []byte {
	return pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(RSA2048()),
	})
}

// RSA2048PKCS8 returns [RSA2048] as PEM encoded PKCS#8 private key.
func RSA2048PKCS8() []byte {
	der, _ := x509.MarshalPKCS8PrivateKey(RSA2048())
	return pem.EncodeToMemory(&pem.Block{
		Type:  "PRIVATE KEY",
		Bytes: der,
	})
}

// ECP256PKCS8 returns [ECP256] as PEM encoded PKCS#8 private key.
// GitHub apps do not support ECDSA keys.
func ECP256PKCS8() []byte {
	der, _ := x509.MarshalPKCS8PrivateKey(ECP256())
	return pem.EncodeToMemory(&pem.Block{
		Type:  "PRIVATE KEY",
		Bytes: der,
	})
}
