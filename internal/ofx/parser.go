// Package ofx imports transactions and accounts from OFX/QFX statement
// files so users without a linked aggregator can still run the pipeline.
package ofx

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strings"

	"github.com/aclindsa/ofxgo"
	"github.com/mintwell/mintwell/internal/model"
)

// Parser reads OFX/QFX statement files into domain transactions and
// accounts. Amounts keep their OFX sign convention, which matches ours:
// negative for outflows, positive for inflows.
type Parser struct{}

// NewParser creates an OFX parser.
func NewParser() *Parser {
	return &Parser{}
}

// preprocessOFX fixes common formatting defects in real-world OFX exports.
func (p *Parser) preprocessOFX(content string) string {
	content = strings.TrimLeft(content, " \t\r\n")

	// SEVERITY must be uppercase but some banks emit Info/Warn/Error.
	severityRegex := regexp.MustCompile(`(?i)<SEVERITY>(Info|Warn|Error)</SEVERITY>`)
	content = severityRegex.ReplaceAllStringFunc(content, strings.ToUpper)

	// SGML-style files sometimes drop the closing bracket on a bare tag.
	tagFixRegex := regexp.MustCompile(`(?m)^(\s*<[A-Z][A-Z0-9._]*[A-Z0-9])$`)
	content = tagFixRegex.ReplaceAllString(content, "$1>")

	return content
}

// ParseFile parses a statement file and returns the transactions it holds,
// stamped with the owning user. Statements that fail to convert are skipped
// with a warning rather than aborting the import.
func (p *Parser) ParseFile(_ context.Context, reader io.Reader, userID string) ([]model.Transaction, error) {
	resp, err := p.parse(reader)
	if err != nil {
		return nil, err
	}

	var transactions []model.Transaction
	var bankStmts, ccStmts int

	for _, msg := range resp.Bank {
		if stmt, ok := msg.(*ofxgo.StatementResponse); ok {
			bankStmts++
			transactions = append(transactions, p.statementTransactions(stmt.BankTranList, string(stmt.BankAcctFrom.AcctID), userID, false)...)
		}
	}
	for _, msg := range resp.CreditCard {
		if stmt, ok := msg.(*ofxgo.CCStatementResponse); ok {
			ccStmts++
			transactions = append(transactions, p.statementTransactions(stmt.BankTranList, string(stmt.CCAcctFrom.AcctID), userID, true)...)
		}
	}

	slog.Info("parsed OFX file",
		"user_id", userID,
		"transactions", len(transactions),
		"bank_statements", bankStmts,
		"cc_statements", ccStmts)

	return transactions, nil
}

// ParseAccounts extracts account records, including statement balances, so a
// file-only import still produces the balances the signal layer needs.
func (p *Parser) ParseAccounts(_ context.Context, reader io.Reader, userID string) ([]model.Account, error) {
	resp, err := p.parse(reader)
	if err != nil {
		return nil, err
	}

	var accounts []model.Account
	seen := make(map[string]bool)

	for _, msg := range resp.Bank {
		stmt, ok := msg.(*ofxgo.StatementResponse)
		if !ok {
			continue
		}
		id := string(stmt.BankAcctFrom.AcctID)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		balance, _ := stmt.BalAmt.Float64()
		accounts = append(accounts, model.Account{
			ID:             id,
			UserID:         userID,
			Name:           fmt.Sprintf("%v account %s", stmt.BankAcctFrom.AcctType, maskAccountID(id)),
			Type:           bankAccountType(stmt.BankAcctFrom.AcctType),
			CurrentBalance: balance,
		})
	}
	for _, msg := range resp.CreditCard {
		stmt, ok := msg.(*ofxgo.CCStatementResponse)
		if !ok {
			continue
		}
		id := string(stmt.CCAcctFrom.AcctID)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		balance, _ := stmt.BalAmt.Float64()
		accounts = append(accounts, model.Account{
			ID:             id,
			UserID:         userID,
			Name:           "Credit card " + maskAccountID(id),
			Type:           model.AccountTypeCredit,
			CurrentBalance: balance,
		})
	}

	return accounts, nil
}

func (p *Parser) parse(reader io.Reader) (*ofxgo.Response, error) {
	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read OFX file: %w", err)
	}
	resp, err := ofxgo.ParseResponse(strings.NewReader(p.preprocessOFX(string(content))))
	if err != nil {
		return nil, fmt.Errorf("failed to parse OFX file: %w", err)
	}
	return resp, nil
}

func (p *Parser) statementTransactions(list *ofxgo.TransactionList, accountID, userID string, creditCard bool) []model.Transaction {
	if list == nil {
		return nil
	}
	txns := make([]model.Transaction, 0, len(list.Transactions))
	for _, ofxTx := range list.Transactions {
		txns = append(txns, p.convertTransaction(ofxTx, accountID, userID, creditCard))
	}
	return txns
}

func (p *Parser) convertTransaction(ofxTx ofxgo.Transaction, accountID, userID string, creditCard bool) model.Transaction {
	amount, _ := ofxTx.TrnAmt.Float64()
	trnType := fmt.Sprintf("%v", ofxTx.TrnType)

	tx := model.Transaction{
		ID:           string(ofxTx.FiTID),
		UserID:       userID,
		Date:         ofxTx.DtPosted.Time,
		Name:         string(ofxTx.Name),
		MerchantName: p.extractMerchantName(ofxTx),
		Amount:       amount,
		AccountID:    accountID,
		Category:     categoryHint(trnType, amount, creditCard),
	}
	tx.Hash = tx.GenerateHash()
	return tx
}

// categoryHint maps OFX transaction types onto the coarse category hints the
// signal layer understands. Unknown types get no hint.
func categoryHint(trnType string, amount float64, creditCard bool) string {
	switch trnType {
	case "INT", "DIV":
		return "income"
	case "DIRECTDEP":
		return "income"
	case "FEE", "SRVCHG":
		if creditCard {
			return "interest"
		}
		return "fees"
	case "CREDIT":
		if !creditCard && amount > 0 {
			return "income"
		}
	}
	return ""
}

func bankAccountType(acctType ofxgo.AcctType) model.AccountType {
	switch strings.ToUpper(fmt.Sprintf("%v", acctType)) {
	case "SAVINGS", "MONEYMRKT":
		return model.AccountTypeSavings
	default:
		return model.AccountTypeChecking
	}
}

// maskAccountID keeps the last four characters of an account number.
func maskAccountID(id string) string {
	if len(id) <= 4 {
		return id
	}
	return "..." + id[len(id)-4:]
}

// extractMerchantName produces a clean merchant name from the OFX payee,
// name, and memo fields.
func (p *Parser) extractMerchantName(tx ofxgo.Transaction) string {
	if tx.Payee != nil && tx.Payee.Name != "" {
		return string(tx.Payee.Name)
	}

	name := string(tx.Name)
	if tx.Memo != "" && isGenericDescription(name) {
		name = string(tx.Memo)
	}
	name = strings.TrimSpace(name)

	prefixes := []string{
		"POS PURCHASE ",
		"PURCHASE AUTHORIZED ON ",
		"DEBIT CARD PURCHASE ",
		"ACH DEBIT ",
		"CHECK CARD ",
		"VISA PURCHASE ",
		"MC PURCHASE ",
		"DEBIT PURCHASE ",
	}
	for _, prefix := range prefixes {
		if strings.HasPrefix(strings.ToUpper(name), prefix) {
			name = name[len(prefix):]
			break
		}
	}

	// Strip leading MM/DD date stamps.
	if len(name) > 5 && name[2] == '/' && name[5] == ' ' {
		name = strings.TrimSpace(name[6:])
	}

	return name
}

func isGenericDescription(name string) bool {
	switch strings.ToUpper(name) {
	case "DEBIT", "CREDIT", "PURCHASE", "PAYMENT", "POS TRANSACTION", "CARD PURCHASE":
		return true
	}
	return false
}
