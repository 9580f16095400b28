package utils

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go"
	"firebase.google.com/go/messaging"
	"github.com/sirupsen/logrus"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
	"google.golang.org/api/option"
)

// Dispatcher sends SMS via Twilio and push messages via FCM. When credentials
// are absent it degrades to log-only so development environments still work.
type Dispatcher struct {
	fcmClient    *messaging.Client
	twilioClient *twilio.RestClient
	twilioNumber string
}

type PushMessage struct {
	Title string            `json:"title"`
	Body  string            `json:"body"`
	Data  map[string]string `json:"data,omitempty"`
}

func NewDispatcher(firebaseCredentials, twilioSID, twilioToken, twilioNumber string) *Dispatcher {
	d := &Dispatcher{twilioNumber: twilioNumber}

	if firebaseCredentials != "" {
		opt := option.WithCredentialsFile(firebaseCredentials)
		app, err := firebase.NewApp(context.Background(), nil, opt)
		if err != nil {
			logrus.Warnf("Failed to initialize Firebase, push disabled: %v", err)
		} else if client, err := app.Messaging(context.Background()); err != nil {
			logrus.Warnf("Failed to initialize FCM client, push disabled: %v", err)
		} else {
			d.fcmClient = client
		}
	}

	if twilioSID != "" && twilioToken != "" {
		d.twilioClient = twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: twilioSID,
			Password: twilioToken,
		})
	}

	return d
}

// SendSMS delivers a text message to the given phone number.
func (d *Dispatcher) SendSMS(ctx context.Context, to, body string) error {
	if d.twilioClient == nil {
		logrus.WithFields(logrus.Fields{"to": to}).Info("SMS dispatch skipped (no Twilio credentials)")
		return nil
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(d.twilioNumber)
	params.SetBody(body)

	_, err := d.twilioClient.Api.CreateMessage(params)
	if err != nil {
		return fmt.Errorf("twilio send failed: %w", err)
	}
	return nil
}

// SendPush delivers a push notification to the given device token.
func (d *Dispatcher) SendPush(ctx context.Context, deviceToken string, msg PushMessage) error {
	if d.fcmClient == nil {
		logrus.WithFields(logrus.Fields{"title": msg.Title}).Info("Push dispatch skipped (no Firebase credentials)")
		return nil
	}

	message := &messaging.Message{
		Token: deviceToken,
		Notification: &messaging.Notification{
			Title: msg.Title,
			Body:  msg.Body,
		},
		Data: msg.Data,
		Android: &messaging.AndroidConfig{
			Priority: "high",
		},
	}

	_, err := d.fcmClient.Send(ctx, message)
	if err != nil {
		return fmt.Errorf("fcm send failed: %w", err)
	}
	return nil
}
