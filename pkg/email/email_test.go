package email

import (
	"errors"
	"net/smtp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sentMail struct {
	addr string
	from string
	to   []string
	msg  string
}

func newTestService(cfg EmailConfig, sent *[]sentMail, fail error) *EmailService {
	s := NewEmailService(cfg)
	s.send = func(addr string, _ smtp.Auth, from string, to []string, msg []byte) error {
		if fail != nil {
			return fail
		}
		*sent = append(*sent, sentMail{addr: addr, from: from, to: to, msg: string(msg)})
		return nil
	}
	return s
}

func TestSendLowStockAlert(t *testing.T) {
	var sent []sentMail
	s := newTestService(EmailConfig{
		SMTPHost:  "smtp.example.com",
		SMTPPort:  587,
		FromName:  "Inventory",
		FromEmail: "inventory@example.com",
	}, &sent, nil)

	err := s.SendLowStockAlert("manager@example.com", LowStockAlert{
		StoreName:     "Corner Shop",
		PurchaseOrder: "PURCHASE ORDER\nRice x 100",
		Items: []LowStockItem{
			{ProductID: "gro001", Name: "Rice <1kg>", Current: 4, Minimum: 30, Order: 60, Level: "critical"},
		},
	})
	require.NoError(t, err)
	require.Len(t, sent, 1)

	m := sent[0]
	assert.Equal(t, "smtp.example.com:587", m.addr)
	assert.Equal(t, "inventory@example.com", m.from)
	assert.Equal(t, []string{"manager@example.com"}, m.to)
	assert.Contains(t, m.msg, "Subject: Low Stock Alert - Purchase Order Required")
	assert.Contains(t, m.msg, "Corner Shop")
	assert.Contains(t, m.msg, "Rice &lt;1kg&gt; (gro001)")
	assert.Contains(t, m.msg, "Rice x 100")
	assert.Contains(t, m.msg, "critical")
}

func TestSendLowStockAlert_Errors(t *testing.T) {
	var sent []sentMail

	unconfigured := newTestService(EmailConfig{}, &sent, nil)
	assert.False(t, unconfigured.Configured())
	assert.Error(t, unconfigured.SendLowStockAlert("m@example.com", LowStockAlert{}))

	ok := newTestService(EmailConfig{SMTPHost: "h", FromEmail: "f@example.com"}, &sent, nil)
	assert.Error(t, ok.SendLowStockAlert("", LowStockAlert{}))

	boom := errors.New("connection refused")
	failing := newTestService(EmailConfig{SMTPHost: "h", FromEmail: "f@example.com"}, &sent, boom)
	assert.ErrorIs(t, failing.SendLowStockAlert("m@example.com", LowStockAlert{}), boom)
	assert.Empty(t, sent)
}
