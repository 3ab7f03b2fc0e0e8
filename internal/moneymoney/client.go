package moneymoney

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"howett.net/plist"

	"github.com/Veraticus/moneyspice/internal/catalog"
	"github.com/Veraticus/moneyspice/internal/model"
)

const dateLayout = "2006-01-02"

// Client reads from and writes to MoneyMoney.
type Client struct {
	runner         Runner
	logger         *slog.Logger
	accounts       map[string]string
	appName        string
	includePending bool
	mu             sync.Mutex
}

// Option configures a Client.
type Option func(*Client)

// WithIncludePending keeps transactions that are not booked yet.
func WithIncludePending(include bool) Option {
	return func(c *Client) { c.includePending = include }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// WithAppName targets a differently named application bundle.
func WithAppName(name string) Option {
	return func(c *Client) { c.appName = name }
}

// New creates a client using runner to execute scripts.
func New(runner Runner, opts ...Option) *Client {
	c := &Client{
		runner:  runner,
		logger:  slog.Default(),
		appName: "MoneyMoney",
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type plistCategory struct {
	UUID        string `plist:"uuid"`
	Name        string `plist:"name"`
	Indentation int    `plist:"indentation"`
	Group       bool   `plist:"group"`
}

type plistAccount struct {
	UUID string `plist:"uuid"`
	Name string `plist:"name"`
}

type plistTransaction struct {
	BookingDate *time.Time `plist:"bookingDate"`
	ValueDate   *time.Time `plist:"valueDate"`
	Booked      *bool      `plist:"booked"`
	AccountUUID string     `plist:"accountUuid"`
	Name        string     `plist:"name"`
	Purpose     string     `plist:"purpose"`
	Comment     string     `plist:"comment"`
	BookingText string     `plist:"bookingText"`
	Currency    string     `plist:"currency"`
	Category    string     `plist:"category"`
	ID          int64      `plist:"id"`
	Amount      float64    `plist:"amount"`
}

// Categories exports the category list. MoneyMoney encodes the hierarchy
// through indentation: a category's parent is the nearest preceding group
// with smaller indentation.
func (c *Client) Categories(ctx context.Context) ([]model.RawCategory, error) {
	out, err := c.runner.Run(ctx, fmt.Sprintf(`tell application %q to export categories`, c.appName))
	if err != nil {
		return nil, fmt.Errorf("failed to export categories: %w", err)
	}

	var exported []plistCategory
	if _, err := plist.Unmarshal(out, &exported); err != nil {
		return nil, fmt.Errorf("failed to parse categories: %w", err)
	}

	raw, err := fromIndentation(exported)
	if err != nil {
		return nil, err
	}
	c.logger.Debug("Exported categories", "count", len(raw))
	return raw, nil
}

func fromIndentation(exported []plistCategory) ([]model.RawCategory, error) {
	var groups []plistCategory
	raw := make([]model.RawCategory, 0, len(exported))
	for _, e := range exported {
		if e.Indentation < 0 {
			return nil, fmt.Errorf("%w: category %q has negative indentation", catalog.ErrMalformedCatalog, e.Name)
		}
		if e.Indentation < len(groups) {
			groups = groups[:e.Indentation]
		}
		parentID := ""
		if len(groups) > 0 {
			parentID = groups[len(groups)-1].UUID
		}
		raw = append(raw, model.RawCategory{
			ID:       e.UUID,
			Name:     e.Name,
			ParentID: parentID,
			IsGroup:  e.Group,
		})
		if e.Group {
			groups = append(groups, e)
		}
	}
	return raw, nil
}

// Accounts maps account UUIDs to names. The result is cached for the
// lifetime of the client.
func (c *Client) Accounts(ctx context.Context) (map[string]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.accounts != nil {
		return c.accounts, nil
	}

	out, err := c.runner.Run(ctx, fmt.Sprintf(`tell application %q to export accounts`, c.appName))
	if err != nil {
		return nil, fmt.Errorf("failed to export accounts: %w", err)
	}
	var exported []plistAccount
	if _, err := plist.Unmarshal(out, &exported); err != nil {
		return nil, fmt.Errorf("failed to parse accounts: %w", err)
	}

	accounts := make(map[string]string, len(exported))
	for _, a := range exported {
		if a.UUID != "" {
			accounts[a.UUID] = a.Name
		}
	}
	c.accounts = accounts
	return accounts, nil
}

// UncategorizedTransactions exports transactions without a category booked
// on or after from, and on or before to when given. Pending transactions are
// dropped unless the client was created WithIncludePending.
func (c *Client) UncategorizedTransactions(ctx context.Context, from time.Time, to *time.Time) ([]model.Transaction, error) {
	var script strings.Builder
	fmt.Fprintf(&script, "tell application %q\n", c.appName)
	fmt.Fprintf(&script, `export transactions from category "" from date %q`, from.Format(dateLayout))
	if to != nil {
		fmt.Fprintf(&script, ` to date %q`, to.Format(dateLayout))
	}
	script.WriteString(` as "plist"` + "\nend tell")

	out, err := c.runner.Run(ctx, script.String())
	if err != nil {
		return nil, fmt.Errorf("failed to export transactions: %w", err)
	}

	var exported struct {
		Transactions []plistTransaction `plist:"transactions"`
	}
	if _, err := plist.Unmarshal(out, &exported); err != nil {
		return nil, fmt.Errorf("failed to parse transactions: %w", err)
	}

	accounts, err := c.Accounts(ctx)
	if err != nil {
		c.logger.Warn("Account names unavailable", "error", err)
		accounts = map[string]string{}
	}

	var (
		txns    []model.Transaction
		pending int
	)
	for _, e := range exported.Transactions {
		if strings.TrimSpace(e.Category) != "" {
			continue
		}
		booked := isBooked(e)
		if !booked && !c.includePending {
			pending++
			continue
		}
		txns = append(txns, toTransaction(e, booked, accounts))
	}

	c.logger.Info("Loaded transactions",
		"total", len(exported.Transactions),
		"uncategorized", len(txns)+pending,
		"pending_excluded", pending)
	return txns, nil
}

// isBooked trusts an explicit booked flag, then the presence of a booking
// date. Without either the transaction is treated as pending.
func isBooked(t plistTransaction) bool {
	if t.Booked != nil {
		return *t.Booked
	}
	return t.BookingDate != nil
}

func toTransaction(e plistTransaction, booked bool, accounts map[string]string) model.Transaction {
	t := model.Transaction{
		ID:          strconv.FormatInt(e.ID, 10),
		AccountID:   e.AccountUUID,
		AccountName: accounts[e.AccountUUID],
		Name:        e.Name,
		Purpose:     e.Purpose,
		Comment:     e.Comment,
		BookingText: e.BookingText,
		Currency:    e.Currency,
		Amount:      e.Amount,
		Booked:      booked,
	}
	if e.BookingDate != nil {
		t.BookingDate = *e.BookingDate
	}
	if e.ValueDate != nil {
		t.ValueDate = *e.ValueDate
	}
	return t
}

// SetTransactionCategory assigns a category by its backslash-delimited path.
func (c *Client) SetTransactionCategory(ctx context.Context, transactionID, categoryPath string) error {
	id, err := strconv.ParseInt(transactionID, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid MoneyMoney transaction id %q: %w", transactionID, err)
	}

	script := fmt.Sprintf("tell application %q\n    set transaction id %d category to \"%s\"\nend tell",
		c.appName, id, escapeAppleScript(categoryPath))
	if _, err := c.runner.Run(ctx, script); err != nil {
		return fmt.Errorf("failed to set category of transaction %d: %w", id, err)
	}
	c.logger.Info("Set transaction category", "transaction_id", id, "category", categoryPath)
	return nil
}

func escapeAppleScript(s string) string {
	return strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(s)
}
