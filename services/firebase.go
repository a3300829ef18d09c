package services

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"

	"ardu.app/feed/log"
)

// Notifier delivers a push notification to one user.
type Notifier interface {
	Notify(ctx context.Context, userID int64, title, body string, data map[string]string) error
}

// UserTopic is the FCM topic a user's devices subscribe to.
func UserTopic(userID int64) string {
	return fmt.Sprintf("user-%d", userID)
}

// FirebaseNotifier sends to the user's topic.
type FirebaseNotifier struct {
	client *messaging.Client
}

// NewFirebaseNotifier builds a messaging client from a service account file.
func NewFirebaseNotifier(ctx context.Context, credentialsPath string) (*FirebaseNotifier, error) {
	log.Info.Printf("[FCM] Initializing Firebase with credentials: %s", credentialsPath)

	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(credentialsPath))
	if err != nil {
		return nil, fmt.Errorf("init firebase app: %w", err)
	}
	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("get messaging client: %w", err)
	}

	log.Info.Println("[FCM] Firebase Messaging client initialized")
	return &FirebaseNotifier{client: client}, nil
}

func (n *FirebaseNotifier) Notify(ctx context.Context, userID int64, title, body string, data map[string]string) error {
	message := &messaging.Message{
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data:  data,
		Topic: UserTopic(userID),
	}

	response, err := n.client.Send(ctx, message)
	if err != nil {
		log.Warn.Printf("[FCM] send to user %d failed: %v", userID, err)
		return err
	}
	log.Info.Printf("[FCM] sent %s to user %d", response, userID)
	return nil
}

// LogNotifier only logs. Used when no Firebase credentials are configured.
type LogNotifier struct{}

func (LogNotifier) Notify(ctx context.Context, userID int64, title, body string, data map[string]string) error {
	log.Info.Printf("[notify] user=%d title=%q body=%q data=%v", userID, title, body, data)
	return nil
}

// NewNotifier picks Firebase when credentials are set, else the log notifier.
func NewNotifier(ctx context.Context, credentialsPath string) Notifier {
	if credentialsPath == "" {
		return LogNotifier{}
	}
	n, err := NewFirebaseNotifier(ctx, credentialsPath)
	if err != nil {
		log.Warn.Printf("[FCM] falling back to log notifier: %v", err)
		return LogNotifier{}
	}
	return n
}
