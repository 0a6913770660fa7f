// Package plaid provides a client for pulling user snapshots from the
// Plaid API: transactions, account balances, and credit liabilities.
package plaid

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/mintwell/mintwell/internal/common"
	"github.com/mintwell/mintwell/internal/model"
	"github.com/mintwell/mintwell/internal/service"
	"github.com/plaid/plaid-go/v20/plaid"
)

// Config holds Plaid API configuration for one linked user.
type Config struct {
	ClientID    string
	Secret      string
	Environment string // sandbox or production
	AccessToken string
	UserID      string
}

// Validate ensures all required fields are present.
func (c *Config) Validate() error {
	if c.ClientID == "" {
		return fmt.Errorf("%w: plaid client ID is required", common.ErrMissingConfig)
	}
	if c.Secret == "" {
		return fmt.Errorf("%w: plaid secret is required", common.ErrMissingConfig)
	}
	if c.AccessToken == "" {
		return fmt.Errorf("%w: plaid access token is required", common.ErrMissingConfig)
	}
	if c.UserID == "" {
		return fmt.Errorf("%w: user ID is required", common.ErrMissingConfig)
	}
	return validateEnvironment(c.Environment)
}

func validateEnvironment(env string) error {
	switch env {
	case "sandbox", "production":
		return nil
	case "":
		return fmt.Errorf("%w: plaid environment is required", common.ErrMissingConfig)
	default:
		return fmt.Errorf("%w: invalid Plaid environment: must be sandbox or production", common.ErrInvalidConfig)
	}
}

// Client implements the DataFetcher interface against the Plaid API.
type Client struct {
	client      *plaid.APIClient
	logger      *slog.Logger
	retryOpts   *service.RetryOptions
	accessToken string
	environment string
	userID      string
}

// NewClient creates a new Plaid client with the given configuration. The
// access token may be empty for the Link flow.
func NewClient(cfg Config) (*Client, error) {
	if cfg.ClientID == "" {
		return nil, fmt.Errorf("%w: plaid client ID is required", common.ErrMissingConfig)
	}
	if cfg.Secret == "" {
		return nil, fmt.Errorf("%w: plaid secret is required", common.ErrMissingConfig)
	}
	if err := validateEnvironment(cfg.Environment); err != nil {
		return nil, err
	}

	configuration := plaid.NewConfiguration()
	configuration.AddDefaultHeader("PLAID-CLIENT-ID", cfg.ClientID)
	configuration.AddDefaultHeader("PLAID-SECRET", cfg.Secret)

	switch cfg.Environment {
	case "sandbox":
		configuration.UseEnvironment(plaid.Sandbox)
	case "production":
		configuration.UseEnvironment(plaid.Production)
	}

	return &Client{
		client:      plaid.NewAPIClient(configuration),
		accessToken: cfg.AccessToken,
		environment: cfg.Environment,
		userID:      cfg.UserID,
		logger:      slog.Default().With("component", "plaid"),
		retryOpts: &service.RetryOptions{
			MaxAttempts:  3,
			InitialDelay: 1 * time.Second,
			MaxDelay:     30 * time.Second,
			Multiplier:   2.0,
		},
	}, nil
}

// GetTransactions fetches transactions within the date range, paginating
// through Plaid's 500-row pages.
func (c *Client) GetTransactions(ctx context.Context, startDate, endDate time.Time) ([]model.Transaction, error) {
	if ctx == nil {
		return nil, fmt.Errorf("context cannot be nil")
	}
	if startDate.After(endDate) {
		return nil, fmt.Errorf("start date must be before end date")
	}

	c.logger.Info("fetching transactions from Plaid",
		"user_id", c.userID,
		"start_date", startDate.Format("2006-01-02"),
		"end_date", endDate.Format("2006-01-02"))

	var allTransactions []plaid.Transaction
	offset := int32(0)
	const pageSize = int32(500)

	for {
		var page []plaid.Transaction

		retryErr := common.WithRetry(ctx, func() error {
			request := plaid.NewTransactionsGetRequest(
				c.accessToken,
				startDate.Format("2006-01-02"),
				endDate.Format("2006-01-02"),
			)
			request.SetOptions(plaid.TransactionsGetRequestOptions{
				Count:  plaid.PtrInt32(pageSize),
				Offset: plaid.PtrInt32(offset),
			})

			resp, _, err := c.client.PlaidApi.TransactionsGet(ctx).TransactionsGetRequest(*request).Execute()
			if err != nil {
				return c.wrapAPIError(err, "failed to fetch transactions")
			}

			page = resp.GetTransactions()
			c.logger.Debug("fetched transaction batch",
				"count", len(page),
				"offset", offset,
				"total", resp.GetTotalTransactions())
			return nil
		}, *c.retryOpts)
		if retryErr != nil {
			return nil, retryErr
		}

		allTransactions = append(allTransactions, page...)
		if len(page) < int(pageSize) {
			break
		}
		offset += pageSize
	}

	c.logger.Info("fetched all transactions", "user_id", c.userID, "count", len(allTransactions))

	transactions := make([]model.Transaction, 0, len(allTransactions))
	for _, pt := range allTransactions {
		transactions = append(transactions, c.mapPlaidTransaction(pt))
	}
	return transactions, nil
}

// GetAccounts fetches account snapshots with balances and credit limits.
func (c *Client) GetAccounts(ctx context.Context) ([]model.Account, error) {
	if ctx == nil {
		return nil, fmt.Errorf("context cannot be nil")
	}

	var plaidAccounts []plaid.AccountBase
	retryErr := common.WithRetry(ctx, func() error {
		request := plaid.NewAccountsGetRequest(c.accessToken)
		resp, _, err := c.client.PlaidApi.AccountsGet(ctx).AccountsGetRequest(*request).Execute()
		if err != nil {
			return c.wrapAPIError(err, "failed to fetch accounts")
		}
		plaidAccounts = resp.GetAccounts()
		return nil
	}, *c.retryOpts)
	if retryErr != nil {
		return nil, retryErr
	}

	fetchedAt := time.Now().UTC()
	accounts := make([]model.Account, 0, len(plaidAccounts))
	for _, pa := range plaidAccounts {
		accounts = append(accounts, c.mapPlaidAccount(pa, fetchedAt))
	}

	c.logger.Info("fetched accounts", "user_id", c.userID, "count", len(accounts))
	return accounts, nil
}

// GetLiabilities fetches credit card liabilities: minimum payments, last
// payments, and overdue flags.
func (c *Client) GetLiabilities(ctx context.Context) ([]model.Liability, error) {
	if ctx == nil {
		return nil, fmt.Errorf("context cannot be nil")
	}

	var credit []plaid.CreditCardLiability
	retryErr := common.WithRetry(ctx, func() error {
		request := plaid.NewLiabilitiesGetRequest(c.accessToken)
		resp, _, err := c.client.PlaidApi.LiabilitiesGet(ctx).LiabilitiesGetRequest(*request).Execute()
		if err != nil {
			return c.wrapAPIError(err, "failed to fetch liabilities")
		}
		credit = resp.GetLiabilities().GetCredit()
		return nil
	}, *c.retryOpts)
	if retryErr != nil {
		return nil, retryErr
	}

	liabilities := make([]model.Liability, 0, len(credit))
	for _, cc := range credit {
		liab := model.Liability{
			AccountID:         cc.GetAccountId(),
			UserID:            c.userID,
			MinimumPayment:    cc.GetMinimumPaymentAmount(),
			LastPaymentAmount: cc.GetLastPaymentAmount(),
			IsOverdue:         cc.GetIsOverdue(),
		}
		if d := cc.GetLastStatementIssueDate(); d != "" {
			if parsed, err := time.Parse("2006-01-02", d); err == nil {
				liab.LastStatementDate = &parsed
			}
		}
		liabilities = append(liabilities, liab)
	}

	c.logger.Info("fetched liabilities", "user_id", c.userID, "count", len(liabilities))
	return liabilities, nil
}

// mapPlaidTransaction converts a Plaid transaction to our model. Plaid uses
// positive amounts for debits; our model is the opposite, so the sign flips.
func (c *Client) mapPlaidTransaction(pt plaid.Transaction) model.Transaction {
	date, err := time.Parse("2006-01-02", pt.GetDate())
	if err != nil {
		c.logger.Error("failed to parse transaction date", "date", pt.GetDate(), "error", err)
		date = time.Now()
	}

	merchantName := pt.GetMerchantName()
	if merchantName == "" {
		merchantName = pt.GetName()
	}
	merchantName = cleanMerchantName(merchantName)

	tx := model.Transaction{
		Date:         date,
		ID:           pt.GetTransactionId(),
		UserID:       c.userID,
		Name:         pt.GetName(),
		MerchantName: merchantName,
		AccountID:    pt.GetAccountId(),
		Amount:       -pt.GetAmount(),
		Category:     categoryHint(pt.GetCategory()),
		Pending:      pt.GetPending(),
	}
	tx.Hash = tx.GenerateHash()
	return tx
}

// categoryHint collapses Plaid's category hierarchy into the coarse hints
// the signal layer understands.
func categoryHint(categories []string) string {
	for _, cat := range categories {
		switch strings.ToLower(cat) {
		case "payroll", "income":
			return "income"
		case "subscription", "streaming services":
			return "subscription"
		case "interest charged":
			return "interest"
		}
	}
	return ""
}

func (c *Client) mapPlaidAccount(pa plaid.AccountBase, fetchedAt time.Time) model.Account {
	balances := pa.GetBalances()
	acct := model.Account{
		FetchedAt:        fetchedAt,
		ID:               pa.GetAccountId(),
		UserID:           c.userID,
		Name:             pa.GetName(),
		Subtype:          strings.ToLower(string(pa.GetSubtype())),
		CurrentBalance:   balances.GetCurrent(),
		AvailableBalance: balances.GetAvailable(),
		CreditLimit:      balances.GetLimit(),
	}

	switch pa.GetType() {
	case plaid.ACCOUNTTYPE_DEPOSITORY:
		if acct.Subtype == "savings" {
			acct.Type = model.AccountTypeSavings
		} else {
			acct.Type = model.AccountTypeChecking
		}
	case plaid.ACCOUNTTYPE_CREDIT:
		acct.Type = model.AccountTypeCredit
	case plaid.ACCOUNTTYPE_LOAN:
		acct.Type = model.AccountTypeLoan
	default:
		acct.Type = model.AccountTypeChecking
	}
	return acct
}

// cleanMerchantName standardizes merchant names: title case, trailing
// transaction IDs stripped, corporate suffixes removed.
func cleanMerchantName(name string) string {
	words := strings.Fields(strings.ToLower(name))
	for i, word := range words {
		if word == "" {
			continue
		}
		runes := []rune(word)
		for j := 0; j < len(runes); j++ {
			if j == 0 || !isLetter(runes[j-1]) {
				runes[j] = toUpper(runes[j])
			}
		}
		words[i] = string(runes)
	}
	name = strings.Join(words, " ")

	parts := strings.Fields(name)
	if len(parts) > 1 {
		lastPart := parts[len(parts)-1]
		if len(lastPart) > 5 && isAllDigits(lastPart) {
			parts = parts[:len(parts)-1]
		}
	}
	name = strings.Join(parts, " ")

	suffixes := []string{
		" Llc", " Inc", " Corp", " Corporation", " Company", " Co", " Ltd", " Limited",
	}
	changed := true
	for changed {
		changed = false
		for _, suffix := range suffixes {
			if strings.HasSuffix(name, suffix) {
				name = strings.TrimSuffix(name, suffix)
				changed = true
			}
		}
	}

	return strings.TrimSpace(name)
}

func isAllDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func isLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func toUpper(r rune) rune {
	if r >= 'a' && r <= 'z' {
		return r - 32
	}
	return r
}

// wrapAPIError classifies a Plaid API error, marking rate limits retryable.
func (c *Client) wrapAPIError(err error, msg string) error {
	if plaidError := extractPlaidError(err); plaidError != nil {
		if plaidError.ErrorCode == "RATE_LIMIT_EXCEEDED" {
			c.logger.Warn("rate limit hit, will retry", "error", plaidError.ErrorMessage)
			return &common.RetryableError{
				Err:       fmt.Errorf("%w: %s", common.ErrPlaidRateLimit, plaidError.ErrorMessage),
				Retryable: true,
			}
		}
		return fmt.Errorf("%w: %s - %s", common.ErrPlaidConnection, plaidError.ErrorCode, plaidError.ErrorMessage)
	}
	return fmt.Errorf("%s: %w", msg, err)
}

func extractPlaidError(err error) *plaid.PlaidError {
	plaidErr, convErr := plaid.ToPlaidError(err)
	if convErr != nil {
		return nil
	}
	return &plaidErr
}

// CreateLinkToken creates a Link token for Plaid Link initialization.
func (c *Client) CreateLinkToken(ctx context.Context) (string, error) {
	user := plaid.LinkTokenCreateRequestUser{
		ClientUserId: c.userID,
	}

	request := plaid.NewLinkTokenCreateRequest(
		"Mintwell",
		"en",
		[]plaid.CountryCode{plaid.COUNTRYCODE_US},
		user,
	)
	request.SetProducts([]plaid.Products{plaid.PRODUCTS_TRANSACTIONS, plaid.PRODUCTS_LIABILITIES})

	// OAuth banks require a redirect URI in production; it must match the
	// Plaid dashboard configuration.
	if c.environment == "production" {
		request.SetRedirectUri("https://localhost:8080/")
	}

	resp, _, err := c.client.PlaidApi.LinkTokenCreate(ctx).LinkTokenCreateRequest(*request).Execute()
	if err != nil {
		return "", c.wrapAPIError(err, "failed to create link token")
	}
	return resp.GetLinkToken(), nil
}

// ExchangePublicToken exchanges a public token from Link for an access token.
func (c *Client) ExchangePublicToken(ctx context.Context, publicToken string) (string, string, error) {
	request := plaid.NewItemPublicTokenExchangeRequest(publicToken)
	resp, _, err := c.client.PlaidApi.ItemPublicTokenExchange(ctx).ItemPublicTokenExchangeRequest(*request).Execute()
	if err != nil {
		return "", "", c.wrapAPIError(err, "failed to exchange public token")
	}
	return resp.GetAccessToken(), resp.GetItemId(), nil
}

// Ensure Client implements DataFetcher.
var _ DataFetcher = (*Client)(nil)
