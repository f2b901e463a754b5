package certs

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"math/big"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// writeSelfSigned creates a self-signed PEM certificate file and
// returns its DER bytes.
func writeSelfSigned(t *testing.T, dir, name, commonName string, notAfter time.Time) []byte {
	t.Helper()

	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatal(err)
	}
	tmpl := &x509.Certificate{
		SerialNumber: big.NewInt(1),
		Subject:      pkix.Name{CommonName: commonName},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     notAfter,
	}
	der, err := x509.CreateCertificate(rand.Reader, tmpl, tmpl, &key.PublicKey, key)
	if err != nil {
		t.Fatal(err)
	}

	out, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		t.Fatal(err)
	}
	defer out.Close()
	if err := pem.Encode(out, &pem.Block{Type: "CERTIFICATE", Bytes: der}); err != nil {
		t.Fatal(err)
	}
	return der
}

func TestList(t *testing.T) {
	dir := t.TempDir()
	der := writeSelfSigned(t, dir, "empresa.pem", "ACME LTDA:11222333000181", time.Now().Add(24*time.Hour))
	writeSelfSigned(t, dir, "vencido.crt", "OLD CORP:99888777000166", time.Now().Add(-time.Hour))
	if err := os.WriteFile(filepath.Join(dir, "notas.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	inv := NewInventory(dir, nil)
	certs, err := inv.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(certs) != 2 {
		t.Fatalf("Expected 2 certificates, got %d", len(certs))
	}

	// Sorted by file name: empresa.pem before vencido.crt.
	acme := certs[0]
	if acme.FileName != "empresa.pem" {
		t.Fatalf("Unexpected order: %+v", certs)
	}
	if acme.CNPJ != "11222333000181" {
		t.Errorf("CNPJ extraction failed: %q", acme.CNPJ)
	}
	if acme.Expired {
		t.Error("Valid certificate marked expired")
	}
	if acme.Thumbprint != Thumbprint(der) {
		t.Errorf("Thumbprint mismatch: %q", acme.Thumbprint)
	}
	if acme.HasKey {
		t.Error("PEM certificate should not report a private key")
	}

	if !certs[1].Expired {
		t.Error("Expired certificate not marked")
	}
}

func TestThumbprintFormat(t *testing.T) {
	tp := Thumbprint([]byte("any der bytes"))
	parts := strings.Split(tp, ":")
	if len(parts) != 20 {
		t.Fatalf("Expected 20 SHA-1 bytes, got %d", len(parts))
	}
	for _, p := range parts {
		if len(p) != 2 || strings.ToUpper(p) != p {
			t.Errorf("Unexpected thumbprint chunk %q", p)
		}
	}
}

func TestFindByThumbprint(t *testing.T) {
	dir := t.TempDir()
	der := writeSelfSigned(t, dir, "cert.pem", "X:11222333000181", time.Now().Add(time.Hour))

	inv := NewInventory(dir, nil)

	found, err := inv.FindByThumbprint(strings.ToLower(Thumbprint(der)))
	if err != nil {
		t.Fatalf("FindByThumbprint failed: %v", err)
	}
	if found.FileName != "cert.pem" {
		t.Errorf("Unexpected match %+v", found)
	}

	if _, err := inv.FindByThumbprint("AA:BB"); err == nil {
		t.Error("Expected error for unknown thumbprint")
	}
}

func TestList_MissingDir(t *testing.T) {
	inv := NewInventory(filepath.Join(t.TempDir(), "nope"), nil)
	if _, err := inv.List(); err == nil {
		t.Error("Expected error for missing directory")
	}
}
