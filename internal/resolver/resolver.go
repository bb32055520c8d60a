// Package resolver maps free-text names onto budget entities.
//
// Accounts and categories are fetched fresh on every resolution because
// their balances move with each transaction; only the payee list, which is
// large and changes rarely, is cached in memory.
package resolver

import (
	"fmt"
	"strings"
	"sync"

	"github.com/yabbi/ynab-mcp/internal/ynab"
)

// Outcome tags a resolution result. Callers must branch on it; ambiguity and
// absence are ordinary results, not errors.
type Outcome int

const (
	// Found means exactly one entity matched.
	Found Outcome = iota
	// Ambiguous means multiple entities matched; Candidates lists them.
	Ambiguous
	// NotFound means nothing matched (accounts and categories only).
	NotFound
	// NewCandidate means no payee matched; the name may be a payee the
	// caller wants to create.
	NewCandidate
)

// AccountResult is the outcome of resolving an account name.
type AccountResult struct {
	Outcome    Outcome
	Account    *ynab.Account
	Candidates []string
	Message    string
}

// CategoryResult is the outcome of resolving a category name.
type CategoryResult struct {
	Outcome    Outcome
	Category   *ynab.Category
	Candidates []string
	Message    string
}

// PayeeResult is the outcome of resolving a payee name.
type PayeeResult struct {
	Outcome    Outcome
	Payee      *ynab.Payee
	Candidates []string
	Message    string
}

// maxPayeeCandidates caps the candidate list surfaced for ambiguous payee
// matches; payee lists run into the hundreds.
const maxPayeeCandidates = 5

// Resolver resolves names against a single budget.
type Resolver struct {
	client *ynab.Client

	mu     sync.RWMutex
	payees []ynab.Payee
	loaded bool
}

// New creates a Resolver backed by the given client.
func New(client *ynab.Client) *Resolver {
	return &Resolver{client: client}
}

// match applies the shared matching algorithm to candidate names:
// a unique case-insensitive exact match short-circuits; otherwise every name
// containing the query as a substring is collected.
func match(query string, names []string) (exact int, substrings []int) {
	q := strings.ToLower(strings.TrimSpace(query))

	exact = -1
	exactCount := 0
	for i, name := range names {
		if strings.ToLower(name) == q {
			exact = i
			exactCount++
		}
	}
	if exactCount == 1 {
		return exact, nil
	}

	for i, name := range names {
		if strings.Contains(strings.ToLower(name), q) {
			substrings = append(substrings, i)
		}
	}
	return -1, substrings
}

// ResolveAccount matches query against open account names. Closed accounts
// are never considered.
func (r *Resolver) ResolveAccount(query string) (AccountResult, error) {
	accounts, err := r.client.Accounts()
	if err != nil {
		return AccountResult{}, err
	}

	var open []ynab.Account
	for _, a := range accounts {
		if !a.Closed {
			open = append(open, a)
		}
	}

	names := make([]string, len(open))
	for i, a := range open {
		names[i] = a.Name
	}

	exact, subs := match(query, names)
	if exact >= 0 {
		return AccountResult{Outcome: Found, Account: &open[exact]}, nil
	}
	switch len(subs) {
	case 1:
		return AccountResult{Outcome: Found, Account: &open[subs[0]]}, nil
	case 0:
		return AccountResult{
			Outcome: NotFound,
			Message: fmt.Sprintf("No account matches %q. Known accounts: %s", query, strings.Join(names, ", ")),
		}, nil
	}

	candidates := pick(names, subs)
	return AccountResult{
		Outcome:    Ambiguous,
		Candidates: candidates,
		Message:    fmt.Sprintf("Multiple accounts match %q: %s. Be more specific.", query, strings.Join(candidates, ", ")),
	}, nil
}

// ResolveCategory matches query against visible category names. Hidden
// categories and categories in hidden groups are never considered.
func (r *Resolver) ResolveCategory(query string) (CategoryResult, error) {
	groups, err := r.client.CategoryGroups()
	if err != nil {
		return CategoryResult{}, err
	}

	var visible []ynab.Category
	for _, g := range groups {
		if g.Hidden {
			continue
		}
		for _, cat := range g.Categories {
			if cat.Hidden {
				continue
			}
			if cat.CategoryGroupName == "" {
				cat.CategoryGroupName = g.Name
			}
			visible = append(visible, cat)
		}
	}

	names := make([]string, len(visible))
	for i, cat := range visible {
		names[i] = cat.Name
	}

	exact, subs := match(query, names)
	if exact >= 0 {
		return CategoryResult{Outcome: Found, Category: &visible[exact]}, nil
	}
	switch len(subs) {
	case 1:
		return CategoryResult{Outcome: Found, Category: &visible[subs[0]]}, nil
	case 0:
		hint := names
		if len(hint) > 10 {
			hint = hint[:10]
		}
		return CategoryResult{
			Outcome: NotFound,
			Message: fmt.Sprintf("No category matches %q. Categories include: %s", query, strings.Join(hint, ", ")),
		}, nil
	}

	candidates := pick(names, subs)
	return CategoryResult{
		Outcome:    Ambiguous,
		Candidates: candidates,
		Message:    fmt.Sprintf("Multiple categories match %q: %s. Be more specific.", query, strings.Join(candidates, ", ")),
	}, nil
}

// ResolvePayee matches query against the cached payee list, loading it on
// first use. An empty match set is not an error: it yields a NewCandidate
// result so callers can offer to create the payee.
func (r *Resolver) ResolvePayee(query string) (PayeeResult, error) {
	payees, err := r.Payees()
	if err != nil {
		return PayeeResult{}, err
	}

	names := make([]string, len(payees))
	for i, p := range payees {
		names[i] = p.Name
	}

	exact, subs := match(query, names)
	if exact >= 0 {
		return PayeeResult{Outcome: Found, Payee: &payees[exact]}, nil
	}
	switch len(subs) {
	case 1:
		return PayeeResult{Outcome: Found, Payee: &payees[subs[0]]}, nil
	case 0:
		return PayeeResult{
			Outcome: NewCandidate,
			Message: fmt.Sprintf("No payee named %q exists yet.", query),
		}, nil
	}

	candidates := pick(names, subs)
	truncated := ""
	if len(candidates) > maxPayeeCandidates {
		candidates = candidates[:maxPayeeCandidates]
		truncated = fmt.Sprintf(" (showing first %d)", maxPayeeCandidates)
	}
	return PayeeResult{
		Outcome:    Ambiguous,
		Candidates: candidates,
		Message:    fmt.Sprintf("Multiple payees match %q: %s%s. Be more specific.", query, strings.Join(candidates, ", "), truncated),
	}, nil
}

// Payees returns the cached payee list, fetching it if not yet loaded.
func (r *Resolver) Payees() ([]ynab.Payee, error) {
	r.mu.RLock()
	if r.loaded {
		payees := r.payees
		r.mu.RUnlock()
		return payees, nil
	}
	r.mu.RUnlock()

	if err := r.RefreshPayees(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.payees, nil
}

// RefreshPayees refetches the payee list and replaces the cache wholesale.
// Call after any write that may have created or renamed a payee.
func (r *Resolver) RefreshPayees() error {
	payees, err := r.client.Payees()
	if err != nil {
		return err
	}

	r.mu.Lock()
	r.payees = payees
	r.loaded = true
	r.mu.Unlock()
	return nil
}

func pick(names []string, idxs []int) []string {
	out := make([]string, len(idxs))
	for i, idx := range idxs {
		out[i] = names[idx]
	}
	return out
}
