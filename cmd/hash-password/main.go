// Command hash-password prints bcrypt hashes in the format stored in the
// accounts table, for seeding development databases.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/phrazzld/taskr-api/internal/domain"
	"github.com/phrazzld/taskr-api/internal/service/auth"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	cost := flag.Int("cost", bcrypt.DefaultCost, "bcrypt cost")
	flag.Parse()

	passwords := flag.Args()
	if len(passwords) == 0 {
		var err error
		if passwords, err = readLines(os.Stdin); err != nil {
			fmt.Fprintf(os.Stderr, "failed to read passwords: %v\n", err)
			os.Exit(1)
		}
	}

	if err := run(os.Stdout, auth.NewBcrypt(*cost), passwords); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run writes one "password<TAB>hash" line per input. Passwords that would be
// rejected at registration are reported and skipped.
func run(w io.Writer, hasher auth.PasswordHasher, passwords []string) error {
	var failed int
	for _, password := range passwords {
		if n := len(password); n < domain.MinPasswordLength || n > domain.MaxPasswordLength {
			fmt.Fprintf(w, "# skipped %q: must be between %d and %d characters\n",
				password, domain.MinPasswordLength, domain.MaxPasswordLength)
			failed++
			continue
		}
		hash, err := hasher.Hash(password)
		if err != nil {
			return fmt.Errorf("failed to hash password: %w", err)
		}
		fmt.Fprintf(w, "%s\t%s\n", password, hash)
	}
	if failed > 0 {
		return fmt.Errorf("%d password(s) rejected", failed)
	}
	return nil
}

func readLines(r io.Reader) ([]string, error) {
	var lines []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" {
			lines = append(lines, line)
		}
	}
	return lines, sc.Err()
}
