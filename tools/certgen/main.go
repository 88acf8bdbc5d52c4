// Package main generates a Certificate Authority (CA) and a server
// certificate, writing them under a certs directory.
//
// Client identities are not generated here: they are issued by the server's
// /api/register endpoint, which hands out a fresh principal per request.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"time"

	"github.com/aschwizzy710/passkeeper/internal/certgen"
)

const caValidity = 10 * 365 * 24 * time.Hour

func main() {
	dir := flag.String("dir", "certs", "output directory")
	hosts := flag.String("hosts", "localhost,127.0.0.1", "comma-separated server host names and IPs")
	flag.Parse()

	if err := run(*dir, splitList(*hosts)); err != nil {
		log.Fatalf("certgen: %v", err)
	}
	fmt.Printf("Certificates generated into ./%s\n", *dir)
}

// run writes ca.crt/ca.key and server.crt/server.key into dir.
func run(dir string, hosts []string) error {
	if len(hosts) == 0 {
		return errors.New("no server hosts")
	}

	ca, err := certgen.NewAuthority("PassKeeper CA", caValidity)
	if err != nil {
		return err
	}
	if err := ca.WriteFiles(filepath.Join(dir, "ca.crt"), filepath.Join(dir, "ca.key")); err != nil {
		return err
	}

	certPEM, keyPEM, err := ca.IssueServer(hosts...)
	if err != nil {
		return fmt.Errorf("server cert: %w", err)
	}
	return certgen.WritePair(filepath.Join(dir, "server.crt"), filepath.Join(dir, "server.key"), certPEM, keyPEM)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
