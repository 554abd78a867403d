package notify

import (
	"context"
	"time"

	"github.com/asaskevich/EventBus"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gopkg.in/gomail.v2"

	"github.com/talkincode/voltdesk/config"
	"github.com/talkincode/voltdesk/internal/order"
)

// MaxNotifications caps the feed at the most recent entries.
const MaxNotifications = 50

// Service maintains the notification feed and optionally mails
// order-created notices.
type Service struct {
	store Store
	smtp  config.SMTPConfig
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// EnableEmail turns on SMTP delivery of order-created notices.
func (s *Service) EnableEmail(cfg config.SMTPConfig) {
	s.smtp = cfg
}

// Add prepends a notification and trims the feed to the cap.
func (s *Service) Add(ctx context.Context, n Notification) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	if n.CreatedAt == 0 {
		n.CreatedAt = time.Now().UnixMilli()
	}

	list, err := s.store.Load(ctx)
	if err != nil {
		return errors.Wrap(err, "load notifications")
	}
	list = append([]Notification{n}, list...)
	if len(list) > MaxNotifications {
		list = list[:MaxNotifications]
	}
	return errors.Wrap(s.store.Save(ctx, list), "save notifications")
}

// List returns the feed, newest first.
func (s *Service) List(ctx context.Context) ([]Notification, error) {
	return s.store.Load(ctx)
}

// UnreadCount returns the number of unread entries.
func (s *Service) UnreadCount(ctx context.Context) (int, error) {
	list, err := s.store.Load(ctx)
	if err != nil {
		return 0, err
	}
	count := 0
	for _, n := range list {
		if !n.Read {
			count++
		}
	}
	return count, nil
}

// MarkRead marks one notification as read.
func (s *Service) MarkRead(ctx context.Context, id string) error {
	list, err := s.store.Load(ctx)
	if err != nil {
		return err
	}
	for i := range list {
		if list[i].ID == id {
			list[i].Read = true
		}
	}
	return s.store.Save(ctx, list)
}

// MarkAllRead marks the whole feed as read.
func (s *Service) MarkAllRead(ctx context.Context) error {
	list, err := s.store.Load(ctx)
	if err != nil {
		return err
	}
	for i := range list {
		list[i].Read = true
	}
	return s.store.Save(ctx, list)
}

// Purge drops read entries older than the given age.
func (s *Service) Purge(ctx context.Context, maxAge time.Duration) error {
	list, err := s.store.Load(ctx)
	if err != nil {
		return err
	}
	cutoff := time.Now().Add(-maxAge).UnixMilli()
	kept := list[:0]
	for _, n := range list {
		if !n.Read || n.CreatedAt >= cutoff {
			kept = append(kept, n)
		}
	}
	return s.store.Save(ctx, kept)
}

// SubscribeBus wires the service to the order event topics.
func (s *Service) SubscribeBus(bus EventBus.Bus) error {
	subs := map[string]string{
		order.EventOrderCreated:       TypeOrderCreated,
		order.EventOrderStatusChanged: TypeStatusChanged,
		order.EventOrderAssigned:      TypeOrderAssigned,
		order.EventOrderPayment:       TypePayment,
	}
	for topic, ntype := range subs {
		topic, ntype := topic, ntype
		err := bus.Subscribe(topic, func(ev order.Event) {
			s.onOrderEvent(ntype, ev)
		})
		if err != nil {
			return errors.Wrapf(err, "subscribe %s", topic)
		}
	}
	return nil
}

func (s *Service) onOrderEvent(ntype string, ev order.Event) {
	n := Notification{
		Type:     ntype,
		Title:    ev.Title,
		Message:  ev.Message,
		OrderUID: ev.OrderUID,
	}
	if err := s.Add(context.Background(), n); err != nil {
		zap.L().Error("failed to record notification",
			zap.String("type", ntype),
			zap.String("order_uid", ev.OrderUID),
			zap.Error(err),
		)
		return
	}
	if ntype == TypeOrderCreated && s.smtp.Enabled {
		s.sendEmail(ev)
	}
}

func (s *Service) sendEmail(ev order.Event) {
	m := gomail.NewMessage()
	m.SetHeader("From", s.smtp.From)
	m.SetHeader("To", s.smtp.To)
	m.SetHeader("Subject", ev.Title)
	m.SetBody("text/plain", ev.Message)

	d := gomail.NewDialer(s.smtp.Host, s.smtp.Port, s.smtp.User, s.smtp.Passwd)
	if err := d.DialAndSend(m); err != nil {
		zap.L().Warn("order notice email failed",
			zap.String("order_uid", ev.OrderUID),
			zap.Error(err),
		)
	}
}
