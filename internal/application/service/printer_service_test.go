package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/sangkips/supermarket-api/internal/domain/entity"
	"github.com/sangkips/supermarket-api/pkg/apperror"
	"github.com/sangkips/supermarket-api/pkg/printer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPrinter struct {
	data []byte
	err  error
}

func (p *recordingPrinter) Print(_ context.Context, data []byte) error {
	if p.err != nil {
		return p.err
	}
	p.data = data
	return nil
}

func (p *recordingPrinter) IsConnected(context.Context) bool { return p.err == nil }
func (p *recordingPrinter) Type() string                     { return printer.TypeTCP }

func newPrinterFixture(t *testing.T, p printer.Printer) *PrinterService {
	t.Helper()
	b := bill("RCPT0001", "Ann", "555", time.Date(2026, 5, 2, 10, 15, 0, 0, time.UTC),
		line("tea", "Green Tea", 3, "0.333", "0.10"),
		line("jam", "Strawberry Jam", 1, "2.50", "0"))
	bills := &fakeBillRepo{bills: []entity.Bill{b}}
	header := entity.ReceiptHeader{StoreName: "Corner Market", Address: "1 High St", TaxID: "P051"}
	return NewPrinterService(p, bills, header, 32, time.UTC)
}

func TestBuildReceipt_RoundsForDisplay(t *testing.T) {
	svc := newPrinterFixture(t, printer.NewNullPrinter())

	r, text, err := svc.ReceiptForBill(context.Background(), "RCPT0001")
	require.NoError(t, err)

	assert.Equal(t, "2026-05-02 10:15", r.Date)
	require.Len(t, r.Items, 2)
	assert.Equal(t, "0.33", r.Items[0].UnitPrice)
	assert.Equal(t, "1.00", r.Items[0].Total)
	// 0.999 + 2.50, tax 0.0999
	assert.Equal(t, "3.50", r.SubTotal)
	assert.Equal(t, "0.10", r.Tax)
	assert.Equal(t, "3.60", r.Total)
	assert.Empty(t, r.CustomerEmail)

	assert.Contains(t, text, "Corner Market")
	assert.Contains(t, text, "Tax ID: P051")
	assert.Contains(t, text, "RCPT0001")
	assert.Contains(t, text, "@ 0.33 each")
	assert.Contains(t, text, "Thank you for shopping with us!")
	assert.NotContains(t, text, "\x1b")
	for _, l := range strings.Split(strings.TrimRight(text, "\n"), "\n") {
		assert.LessOrEqual(t, len([]rune(l)), 32, l)
	}
}

func TestPrintBill(t *testing.T) {
	p := &recordingPrinter{}
	svc := newPrinterFixture(t, p)

	r, err := svc.PrintBill(context.Background(), "RCPT0001")
	require.NoError(t, err)
	assert.Equal(t, "RCPT0001", r.BillID)
	require.NotEmpty(t, p.data)
	assert.Equal(t, byte(0x1b), p.data[0])

	status := svc.GetStatus(context.Background())
	assert.True(t, status.Configured)
	assert.True(t, status.Connected)
}

func TestPrintBill_PrinterFailureKeepsReceipt(t *testing.T) {
	svc := newPrinterFixture(t, &recordingPrinter{err: errDiskFull})

	r, err := svc.PrintBill(context.Background(), "RCPT0001")
	require.Error(t, err)
	assert.ErrorIs(t, err, errDiskFull)
	require.NotNil(t, r)
	assert.Equal(t, "3.60", r.Total)
}

func TestPrintBill_UnknownBill(t *testing.T) {
	svc := newPrinterFixture(t, printer.NewNullPrinter())

	r, err := svc.PrintBill(context.Background(), "MISSING1")
	assert.Nil(t, r)
	assert.Equal(t, 404, apperror.GetAppError(err).Code)

	status := svc.GetStatus(context.Background())
	assert.False(t, status.Configured)
	assert.Equal(t, printer.TypeNone, status.Type)
}
