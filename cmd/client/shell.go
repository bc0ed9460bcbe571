package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/atinyakov/storefront/internal/client/auth"
	"github.com/atinyakov/storefront/internal/client/listing"
)

const helpText = `Available commands:
  login <username> <password>   log in
  logout                        log out
  list                          show the current page
  page <n>                      go to page n
  search [text]                 search products, no text clears the search
  add <product-id>              add one unit to the cart
  qty <product-id> <n>          set the cart quantity, 0 removes
  cart                          show the cart
  help                          show this help
  exit                          leave the shell`

// shell is the interactive front end over the listing controller.
type shell struct {
	auth    *auth.Service
	listing *listing.Controller
	out     io.Writer
	mu      sync.Mutex
}

func (s *shell) printf(format string, args ...any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.out, format, args...)
}

// render writes the product grid, the pager and a cart summary.
func (s *shell) render(v listing.View) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if v.SearchText != "" {
		fmt.Fprintf(s.out, "Results for %q\n", v.SearchText)
	}
	if len(v.Products) == 0 {
		fmt.Fprintln(s.out, "No products found")
	}
	for _, p := range v.Products {
		marker := " "
		for _, it := range v.Cart {
			if it.Product.ID == p.ID {
				marker = "*"
				break
			}
		}
		fmt.Fprintf(s.out, "%s %-16s %-28s %-12s $%-8.2f %s\n",
			marker, p.ID, p.Name, p.Category, p.Cost, strings.Repeat("★", p.Rating))
	}
	if v.ShowPager {
		fmt.Fprintf(s.out, "Page %d of %d\n", v.Page, v.PageCount)
	}
	if !v.Session.Anonymous() {
		fmt.Fprintf(s.out, "Cart: %d item(s), total $%s\n", v.CartUnits, v.CartTotal.StringFixed(2))
	}
}

func (s *shell) renderCart(v listing.View) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if v.Session.Anonymous() {
		fmt.Fprintln(s.out, "Login to view your cart")
		return
	}
	if len(v.Cart) == 0 {
		fmt.Fprintln(s.out, "Cart is empty")
		return
	}
	for _, it := range v.Cart {
		fmt.Fprintf(s.out, "  %-16s %-28s x%-3d $%.2f\n", it.Product.ID, it.Product.Name, it.Quantity, it.Product.Cost)
	}
	fmt.Fprintf(s.out, "Order total: $%s (%d item(s))\n", v.CartTotal.StringFixed(2), v.CartUnits)
}

// run reads commands from in until exit or EOF.
func (s *shell) run(ctx context.Context, in io.Reader) {
	s.render(s.listing.Activate(ctx))

	scanner := bufio.NewScanner(in)
	for {
		s.printf("storefront> ")
		if !scanner.Scan() {
			s.printf("\n")
			return
		}
		if !s.exec(ctx, strings.TrimSpace(scanner.Text())) {
			return
		}
	}
}

// exec runs one command line and reports whether the shell should continue.
func (s *shell) exec(ctx context.Context, line string) bool {
	args := strings.Fields(line)
	if len(args) == 0 {
		return true
	}

	switch args[0] {
	case "help":
		s.printf("%s\n", helpText)
	case "login":
		var username, password string
		if len(args) > 1 {
			username = args[1]
		}
		if len(args) > 2 {
			password = args[2]
		}
		if s.auth.Login(ctx, username, password) {
			s.render(s.listing.Activate(ctx))
		}
	case "logout":
		if err := s.auth.Logout(); err != nil {
			s.printf("Logout failed: %v\n", err)
			return true
		}
		s.render(s.listing.Activate(ctx))
	case "list":
		s.render(s.listing.View())
	case "page":
		n, ok := intArg(args, 1)
		if !ok {
			s.printf("Usage: page <n>\n")
			return true
		}
		s.render(s.listing.ChangePage(n))
	case "search":
		s.listing.Keystroke(ctx, strings.TrimSpace(strings.TrimPrefix(line, "search")))
	case "add":
		if len(args) < 2 {
			s.printf("Usage: add <product-id>\n")
			return true
		}
		s.render(s.listing.AddToCart(ctx, args[1]))
	case "qty":
		n, ok := intArg(args, 2)
		if !ok || n < 0 {
			s.printf("Usage: qty <product-id> <n>\n")
			return true
		}
		s.renderCart(s.listing.SetQuantity(ctx, args[1], n))
	case "cart":
		s.renderCart(s.listing.View())
	case "exit", "quit":
		s.printf("Bye\n")
		return false
	default:
		s.printf("Unknown command. Type 'help' for a list of commands.\n")
	}
	return true
}

func intArg(args []string, i int) (int, bool) {
	if len(args) <= i {
		return 0, false
	}
	n, err := strconv.Atoi(args[i])
	if err != nil {
		return 0, false
	}
	return n, true
}
