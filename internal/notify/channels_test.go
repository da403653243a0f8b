package notify

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

type fakeMailClient struct {
	status int
	got    *mail.SGMailV3
}

func (f *fakeMailClient) SendWithContext(_ context.Context, m *mail.SGMailV3) (*rest.Response, error) {
	f.got = m
	return &rest.Response{StatusCode: f.status, Body: "{}"}, nil
}

func TestSendGridSender(t *testing.T) {
	client := &fakeMailClient{status: 202}
	s := &SendGridSender{client: client, from: mail.NewEmail("Flinx Market", "no-reply@flinx.example")}

	if err := s.SendEmail(context.Background(), "a@lpu.in", "Payment successful", "You paid"); err != nil {
		t.Fatalf("SendEmail: %v", err)
	}
	if client.got.Subject != "Payment successful" || client.got.Personalizations[0].To[0].Address != "a@lpu.in" {
		t.Errorf("mail = %+v", client.got)
	}
	if c := client.got.Content; len(c) != 1 || c[0].Type != "text/plain" {
		t.Errorf("content = %+v", c)
	}

	client.status = 401
	if err := s.SendEmail(context.Background(), "a@lpu.in", "s", "b"); err == nil || !strings.Contains(err.Error(), "401") {
		t.Errorf("err = %v, want status error", err)
	}
}

func TestNewSendersWithoutCredentials(t *testing.T) {
	if NewSendGridSender("", "x@y") != nil {
		t.Error("sendgrid without key should be nil")
	}
	if NewTwilioSender("AC1", "", "+1") != nil {
		t.Error("twilio without token should be nil")
	}
}

type fakeMessages struct {
	params *twilioApi.CreateMessageParams
	err    error
}

func (f *fakeMessages) CreateMessage(p *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error) {
	f.params = p
	return &twilioApi.ApiV2010Message{}, f.err
}

func TestTwilioSender(t *testing.T) {
	api := &fakeMessages{}
	s := &TwilioSender{api: api, from: "+15550000000"}

	if err := s.SendSMS(context.Background(), "+911234567890", "paid"); err != nil {
		t.Fatalf("SendSMS: %v", err)
	}
	if *api.params.To != "+911234567890" || *api.params.From != "+15550000000" || *api.params.Body != "paid" {
		t.Errorf("params = %+v", api.params)
	}

	api.err = errors.New("21211 invalid number")
	if err := s.SendSMS(context.Background(), "bad", "paid"); err == nil {
		t.Error("expected twilio error")
	}
}
