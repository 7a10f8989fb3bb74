// Package ofx provides OFX/QFX investment statement parsing for brokerfeed
package ofx

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"math"
	"path/filepath"
	"strings"

	"github.com/aclindsa/ofxgo"

	"github.com/rumor-ml/commons.systems/brokerfeed/internal/parser"
)

// Parser implements OFX/QFX parsing with a stateless design.
// The struct has no fields because OFX parsing requires no configuration state.
// Each method operates solely on the input data provided, making the parser safe
// for concurrent use without locking.
type Parser struct{}

var parserInstance = &Parser{}

// NewParser returns the shared OFX parser instance.
// Safe for concurrent use due to stateless design.
func NewParser() *Parser {
	return parserInstance
}

// getFileInfo returns a formatted file path string for error messages
func getFileInfo(meta *parser.Metadata) string {
	if meta != nil && meta.FilePath() != "" {
		return fmt.Sprintf(" from %s", meta.FilePath())
	}
	return ""
}

// Name returns the parser identifier
func (p *Parser) Name() string {
	return "ofx"
}

// CanParse checks if this parser can handle the file based on extension and header
func (p *Parser) CanParse(path string, header []byte) bool {
	// Check file extension (.ofx or .qfx, case-insensitive)
	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".ofx" && ext != ".qfx" {
		return false
	}

	// Look for OFX header markers (both v1 SGML and v2 XML formats)
	headerUpper := strings.ToUpper(string(header))
	return strings.Contains(headerUpper, "OFXHEADER") ||
		strings.Contains(headerUpper, "<?OFX") ||
		strings.Contains(headerUpper, "<OFX>")
}

// Parse extracts raw rows from an OFX/QFX investment statement
func (p *Parser) Parse(ctx context.Context, r io.Reader, meta *parser.Metadata) ([]parser.Row, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read OFX content%s: %w", getFileInfo(meta), err)
	}

	// ofxgo.ParseResponse does not support context cancellation, so this check
	// only catches cancellation between file read and parsing.
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	response, err := ofxgo.ParseResponse(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("failed to parse OFX file%s (%d bytes): %w", getFileInfo(meta), len(content), err)
	}

	if len(response.InvStmt) == 0 {
		return nil, fmt.Errorf("no investment statement (INVSTMTMSGSRSV1) found in OFX file%s; bank and credit card statements carry no security activity", getFileInfo(meta))
	}

	invStmt, ok := response.InvStmt[0].(*ofxgo.InvStatementResponse)
	if !ok {
		return nil, fmt.Errorf("failed to type assert investment statement: expected *ofxgo.InvStatementResponse, got %T", response.InvStmt[0])
	}

	if invStmt.InvTranList == nil {
		return nil, fmt.Errorf("missing transaction list in investment statement%s", getFileInfo(meta))
	}

	currency := invStmt.CurDef.String()

	rows := make([]parser.Row, 0, len(invStmt.InvTranList.InvTransactions))
	for i, invTran := range invStmt.InvTranList.InvTransactions {
		row, err := p.extractRow(invTran, currency)
		if err != nil {
			return nil, fmt.Errorf("failed to parse investment transaction at index %d%s: %w", i, getFileInfo(meta), err)
		}
		if row == nil {
			// Transaction types outside the activity model (transfers,
			// reinvestments, option legs) are not ours to convert.
			continue
		}
		rows = append(rows, row)
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("investment statement contains no convertible transactions%s", getFileInfo(meta))
	}

	return rows, nil
}

// extractRow maps a single OFX investment transaction onto the row union.
// Returns (nil, nil) for transaction types the activity model does not cover.
func (p *Parser) extractRow(invTran ofxgo.InvTransaction, currency string) (parser.Row, error) {
	switch t := invTran.(type) {
	case ofxgo.BuyStock:
		return tradeRowFromInvBuy(&t.InvBuy, parser.OrderTypeBuy, currency)
	case ofxgo.SellStock:
		return tradeRowFromInvSell(&t.InvSell, parser.OrderTypeSell, currency)
	case ofxgo.Income:
		return dividendRowFromIncome(&t, currency)
	default:
		return nil, nil
	}
}

func tradeRowFromInvBuy(b *ofxgo.InvBuy, orderType parser.OrderType, currency string) (*parser.TradeRow, error) {
	identifier := b.SecID.UniqueID.String()
	if identifier == "" {
		return nil, fmt.Errorf("buy transaction %s missing security identifier", b.InvTran.FiTID.String())
	}

	units, _ := b.Units.Float64()
	unitPrice, _ := b.UnitPrice.Float64()
	commission, _ := b.Commission.Float64()
	total, _ := b.Total.Float64()

	return parser.NewTradeRow(
		orderType,
		b.InvTran.DtTrade.Time.Format("20060102"),
		identifier,
		math.Abs(units),
		math.Abs(unitPrice),
		math.Abs(total),
		currency,
		math.Abs(commission),
		currency,
	)
}

func tradeRowFromInvSell(s *ofxgo.InvSell, orderType parser.OrderType, currency string) (*parser.TradeRow, error) {
	identifier := s.SecID.UniqueID.String()
	if identifier == "" {
		return nil, fmt.Errorf("sell transaction %s missing security identifier", s.InvTran.FiTID.String())
	}

	units, _ := s.Units.Float64()
	unitPrice, _ := s.UnitPrice.Float64()
	commission, _ := s.Commission.Float64()
	total, _ := s.Total.Float64()

	return parser.NewTradeRow(
		orderType,
		s.InvTran.DtTrade.Time.Format("20060102"),
		identifier,
		math.Abs(units),
		math.Abs(unitPrice),
		math.Abs(total),
		currency,
		math.Abs(commission),
		currency,
	)
}

func dividendRowFromIncome(inc *ofxgo.Income, currency string) (*parser.DividendRow, error) {
	identifier := inc.SecID.UniqueID.String()
	if identifier == "" {
		return nil, fmt.Errorf("income transaction %s missing security identifier", inc.InvTran.FiTID.String())
	}

	description := strings.TrimSpace(inc.InvTran.Memo.String())

	// The memo text carries the same classification keywords as the CSV
	// export; DIV income with an uninformative memo defaults to a dividend.
	orderType := parser.ClassifyOrderType(description)
	if orderType == parser.OrderTypeUnknown && strings.EqualFold(inc.IncomeType.String(), "DIV") {
		orderType = parser.OrderTypeDividend
	}

	total, _ := inc.Total.Float64()

	return parser.NewDividendRow(
		orderType,
		inc.InvTran.DtTrade.Time.Format("20060102"),
		identifier,
		description,
		math.Abs(total),
		currency,
	)
}
