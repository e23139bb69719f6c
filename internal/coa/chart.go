// Package coa holds the canonical chart of accounts and the label matcher
// that maps raw source labels onto it.
package coa

import (
	_ "embed"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/underwrite-cli/internal/model"
)

//go:embed accounts.yaml
var defaultChartYAML []byte

// Chart is the fixed, ordered chart of accounts. It is loaded once at
// startup and injected into every component that needs it; nothing mutates
// it afterwards.
type Chart struct {
	Accounts []model.Account
	byCode   map[string]*model.Account
}

// NewChart indexes an explicit account list. The order of accounts is
// significant: fuzzy-match ties resolve to the earliest account.
func NewChart(accounts []model.Account) (*Chart, error) {
	if len(accounts) == 0 {
		return nil, eris.New("coa: chart of accounts is empty")
	}
	c := &Chart{
		Accounts: accounts,
		byCode:   make(map[string]*model.Account, len(accounts)),
	}
	for i := range c.Accounts {
		a := &c.Accounts[i]
		if a.Code == "" {
			return nil, eris.Errorf("coa: account %q has no code", a.Name)
		}
		if _, dup := c.byCode[a.Code]; dup {
			return nil, eris.Errorf("coa: duplicate account code %q", a.Code)
		}
		c.byCode[a.Code] = a
	}
	return c, nil
}

// LoadDefaultChart parses the embedded chart of accounts.
func LoadDefaultChart() (*Chart, error) {
	var doc struct {
		Accounts []model.Account `yaml:"accounts"`
	}
	if err := yaml.Unmarshal(defaultChartYAML, &doc); err != nil {
		return nil, eris.Wrap(err, "coa: parse embedded chart")
	}
	return NewChart(doc.Accounts)
}

// ByCode returns the account with the given code, or nil.
func (c *Chart) ByCode(code string) *model.Account {
	return c.byCode[code]
}

// OtherRevenue returns the catch-all revenue account.
func (c *Chart) OtherRevenue() *model.Account {
	return c.byCode["rev_other"]
}

// OtherExpense returns the catch-all expense account.
func (c *Chart) OtherExpense() *model.Account {
	return c.byCode["exp_other"]
}
