package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sangkips/supermarket-api/internal/domain/entity"
	"github.com/sangkips/supermarket-api/internal/domain/repository"
	"github.com/sangkips/supermarket-api/pkg/apperror"
	logx "github.com/sangkips/supermarket-api/pkg/logger"
	"github.com/sangkips/supermarket-api/pkg/printer"
	"github.com/shopspring/decimal"
)

// PrinterService handles receipt formatting and thermal printing.
type PrinterService struct {
	printer   printer.Printer
	billRepo  repository.BillRepository
	header    entity.ReceiptHeader
	charWidth int
	loc       *time.Location
}

// NewPrinterService creates a new printer service.
func NewPrinterService(
	p printer.Printer,
	billRepo repository.BillRepository,
	header entity.ReceiptHeader,
	charWidth int,
	loc *time.Location,
) *PrinterService {
	if loc == nil {
		loc = time.Local
	}
	return &PrinterService{
		printer:   p,
		billRepo:  billRepo,
		header:    header,
		charWidth: charWidth,
		loc:       loc,
	}
}

// PrinterStatus returns the current printer status information.
type PrinterStatus struct {
	Configured bool   `json:"configured"`
	Connected  bool   `json:"connected"`
	Type       string `json:"type"`
}

// GetStatus returns printer connection status.
func (s *PrinterService) GetStatus(ctx context.Context) *PrinterStatus {
	return &PrinterStatus{
		Configured: s.printer.Type() != printer.TypeNone,
		Connected:  s.printer.IsConnected(ctx),
		Type:       s.printer.Type(),
	}
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// BuildReceipt composes the printable view of a bill. Rounding to cents happens here only.
func (s *PrinterService) BuildReceipt(bill *entity.Bill) *entity.Receipt {
	r := &entity.Receipt{
		Header:        s.header,
		BillID:        bill.ID,
		Date:          bill.CreatedAt.In(s.loc).Format("2006-01-02 15:04"),
		CustomerName:  bill.Customer.Name,
		CustomerPhone: bill.Customer.Phone,
		Items:         make([]entity.ReceiptItem, 0, len(bill.Items)),
		SubTotal:      money(bill.Subtotal),
		Tax:           money(bill.TaxAmount),
		Total:         money(bill.TotalAmount),
	}
	if bill.Customer.Email != nil {
		r.CustomerEmail = *bill.Customer.Email
	}
	for _, item := range bill.Items {
		r.Items = append(r.Items, entity.ReceiptItem{
			Name:      item.ProductName,
			Quantity:  item.Quantity,
			UnitPrice: money(item.UnitPrice),
			Total:     money(item.TotalPrice),
		})
	}
	return r
}

func (s *PrinterService) layout(doc *printer.Document, r *entity.Receipt) {
	doc.SetAlign(printer.AlignCenter).
		SetBold(true).
		SetFontSize(printer.FontDouble).
		Text(r.Header.StoreName).
		SetFontSize(printer.FontNormal).
		SetBold(false)

	if r.Header.Address != "" {
		doc.Text(r.Header.Address)
	}
	if r.Header.Phone != "" {
		doc.Text(r.Header.Phone)
	}
	if r.Header.TaxID != "" {
		doc.TextF("Tax ID: %s", r.Header.TaxID)
	}

	doc.SetAlign(printer.AlignLeft).
		Separator('=')

	doc.KeyValue("Bill:", r.BillID).
		KeyValue("Date:", r.Date).
		KeyValue("Customer:", r.CustomerName).
		KeyValue("Phone:", r.CustomerPhone)
	if r.CustomerEmail != "" {
		doc.KeyValue("Email:", r.CustomerEmail)
	}

	doc.Separator('-')

	for _, item := range r.Items {
		doc.ItemLine(item.Quantity, item.Name, item.Total)
		if item.Quantity > 1 {
			doc.TextF("   @ %s each", item.UnitPrice)
		}
	}

	doc.Separator('-').
		KeyValue("Subtotal:", r.SubTotal).
		KeyValue("Tax:", r.Tax).
		SetBold(true).
		KeyValue("TOTAL:", r.Total).
		SetBold(false).
		Separator('=')

	doc.SetAlign(printer.AlignCenter).
		Text("Thank you for shopping with us!").
		SetAlign(printer.AlignLeft)
}

// RenderText lays the receipt out as plain text
func (s *PrinterService) RenderText(r *entity.Receipt) string {
	doc := printer.NewTextDocument(s.charWidth)
	s.layout(doc, r)
	return doc.String()
}

// RenderESCPOS lays the receipt out as an ESC/POS byte stream
func (s *PrinterService) RenderESCPOS(r *entity.Receipt) []byte {
	doc := printer.NewDocument(s.charWidth)
	s.layout(doc, r)
	doc.Cut()
	return doc.Bytes()
}

func (s *PrinterService) bill(ctx context.Context, billID string) (*entity.Bill, error) {
	bill, err := s.billRepo.GetByID(ctx, billID)
	if err != nil {
		return nil, apperror.NewPersistenceError("load bills", err)
	}
	if bill == nil {
		return nil, apperror.NewNotFoundError("Bill")
	}
	return bill, nil
}

// ReceiptForBill returns the receipt and its plain-text rendering
func (s *PrinterService) ReceiptForBill(ctx context.Context, billID string) (*entity.Receipt, string, error) {
	bill, err := s.bill(ctx, billID)
	if err != nil {
		return nil, "", err
	}
	r := s.BuildReceipt(bill)
	return r, s.RenderText(r), nil
}

// PrintBill sends the receipt of a stored bill to the printer.
// The receipt is returned even when printing fails.
func (s *PrinterService) PrintBill(ctx context.Context, billID string) (*entity.Receipt, error) {
	bill, err := s.bill(ctx, billID)
	if err != nil {
		return nil, err
	}
	r := s.BuildReceipt(bill)

	if err := s.printer.Print(ctx, s.RenderESCPOS(r)); err != nil {
		logx.Error().Err(err).Str("bill_id", billID).Str("printer", s.printer.Type()).Msg("printer error")
		return r, fmt.Errorf("failed to print receipt: %w", err)
	}
	return r, nil
}
