package services

import (
	"context"
	"fmt"

	"github.com/sideshow/apns2"
	"github.com/sideshow/apns2/certificate"
	"github.com/sideshow/apns2/payload"
)

// APNSNotifier delivers pairing push notifications through Apple's push
// service.
type APNSNotifier struct {
	client *apns2.Client
	topic  string
}

// NewAPNSNotifier creates a notifier from a p12 certificate file.
func NewAPNSNotifier(certFile, certPassword, topic string, production bool) (*APNSNotifier, error) {
	cert, err := certificate.FromP12File(certFile, certPassword)
	if err != nil {
		return nil, fmt.Errorf("failed to load APNs certificate: %w", err)
	}

	client := apns2.NewClient(cert)
	if production {
		client = client.Production()
	} else {
		client = client.Development()
	}

	return &APNSNotifier{client: client, topic: topic}, nil
}

// PartnerJoined notifies the inviter's device that the partner redeemed the
// invite code.
func (n *APNSNotifier) PartnerJoined(ctx context.Context, deviceToken string) error {
	notification := &apns2.Notification{
		DeviceToken: deviceToken,
		Topic:       n.topic,
		Payload: payload.NewPayload().
			AlertTitle("LoveSpace").
			AlertBody("Seu par aceitou o convite! Vocês estão conectados.").
			Sound("default"),
	}

	res, err := n.client.PushWithContext(ctx, notification)
	if err != nil {
		return fmt.Errorf("failed to send push: %w", err)
	}
	if !res.Sent() {
		return fmt.Errorf("push rejected: %s", res.Reason)
	}
	return nil
}
