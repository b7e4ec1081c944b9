package notify

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/legal-services-api/internal/model"
)

func TestInquiryMessages(t *testing.T) {
	event := &model.InquiryCreatedEvent{
		InquiryID:    12,
		ServiceTitle: "Contract Review",
		Name:         "Ann",
		Email:        "ann@example.com",
		Phone:        "555",
		Message:      "Need help",
	}

	msgs := InquiryMessages(event, "staff@example.com")
	require.Len(t, msgs, 2)

	assert.Equal(t, []string{"staff@example.com"}, msgs[0].To)
	assert.Equal(t, "New inquiry: Contract Review", msgs[0].Subject)
	assert.Contains(t, msgs[0].Body, "New inquiry #12")
	assert.NotContains(t, msgs[0].Body, "Company:")

	assert.Equal(t, []string{"ann@example.com"}, msgs[1].To)
	assert.Contains(t, msgs[1].Body, "Dear Ann")
}

func TestInquiryMessagesWithoutStaffAddress(t *testing.T) {
	msgs := InquiryMessages(&model.InquiryCreatedEvent{Email: "a@b.c"}, "")
	assert.Len(t, msgs, 1)
}

func TestComposeSetsHeaders(t *testing.T) {
	s := NewSMTPSender(SMTPConfig{Host: "localhost", Port: 25, From: "noreply@example.com"})
	m := s.compose(&Message{To: []string{"x@example.com"}, Subject: "Hi", Body: "body"})

	assert.Equal(t, []string{"noreply@example.com"}, m.GetHeader("From"))
	assert.Equal(t, []string{"x@example.com"}, m.GetHeader("To"))
	assert.Equal(t, []string{"Hi"}, m.GetHeader("Subject"))
}

func TestSendHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := NewSMTPSender(SMTPConfig{Host: "localhost", Port: 1})
	assert.ErrorIs(t, s.Send(ctx, &Message{}), context.Canceled)
}
