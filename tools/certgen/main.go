// Package main generates a development CA and a server certificate for the
// storefront backend, writing them under the "certs" directory.
//
// Usage:
//
//	certgen -dir certs -hosts localhost,127.0.0.1
//
// Start the backend with -tls-cert certs/server.crt -tls-key certs/server.key
// and the shell with -ca certs/ca.crt -url https://localhost:8082/api/v1.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/atinyakov/storefront/internal/certgen"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("certgen", flag.ContinueOnError)
	dir := fs.String("dir", "certs", "output directory")
	hosts := fs.String("hosts", "localhost,127.0.0.1", "comma separated server host names and IPs")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var names []string
	for _, h := range strings.Split(*hosts, ",") {
		if h = strings.TrimSpace(h); h != "" {
			names = append(names, h)
		}
	}

	b, err := certgen.WriteDevPKI(*dir, names)
	if err != nil {
		return fmt.Errorf("generate certificates: %w", err)
	}
	fmt.Fprintf(out, "CA:     %s\nServer: %s (key %s)\n", b.CACert, b.ServerCert, b.ServerKey)
	return nil
}
