package notifier

import (
	"context"
	"strings"
	"testing"
	"time"

	"real-estate-system/internal/contextkeys"
	"real-estate-system/internal/core/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newNotification(receiver uuid.UUID) domain.Notification {
	return domain.Notification{
		ID:          uuid.New(),
		SenderID:    uuid.New(),
		ReceiverID:  receiver,
		Type:        domain.NotificationAgreementAccepted,
		Content:     "Congratulations. Bob accepted your proposal.",
		AgreementID: uuid.New(),
		CreatedAt:   time.Date(2024, time.March, 10, 12, 0, 0, 0, time.UTC),
	}
}

func receive(t *testing.T, ch ClientChannel) string {
	t.Helper()
	select {
	case frame := <-ch:
		return string(frame)
	case <-time.After(2 * time.Second):
		t.Fatal("no frame received")
		return ""
	}
}

func TestFormatEvent(t *testing.T) {
	n := newNotification(uuid.New())

	frame, err := FormatEvent(n)

	require.NoError(t, err)
	s := string(frame)
	assert.True(t, strings.HasPrefix(s, "event: agreement_accepted\ndata: {"))
	assert.True(t, strings.HasSuffix(s, "}\n\n"))
	assert.Contains(t, s, `"content":"Congratulations. Bob accepted your proposal."`)
	assert.Contains(t, s, `"agreementId":"`+n.AgreementID.String()+`"`)
}

func TestSSENotifier_DeliversToAllTabsOfReceiver(t *testing.T) {
	notifier := NewSSENotifier(contextkeys.NoopLogger())
	defer notifier.Close()

	receiver, other := uuid.New(), uuid.New()
	tab1 := notifier.AddClient(receiver)
	tab2 := notifier.AddClient(receiver)
	foreign := notifier.AddClient(other)
	assert.Equal(t, 2, notifier.ClientsCount(receiver))

	n := newNotification(receiver)
	notifier.Notify(context.Background(), n)

	assert.Contains(t, receive(t, tab1), n.ID.String())
	assert.Contains(t, receive(t, tab2), n.ID.String())
	assert.Empty(t, foreign)
}

func TestSSENotifier_RemoveClient(t *testing.T) {
	notifier := NewSSENotifier(contextkeys.NoopLogger())
	defer notifier.Close()

	user := uuid.New()
	first := notifier.AddClient(user)
	second := notifier.AddClient(user)

	notifier.RemoveClient(user, first)
	assert.Equal(t, 1, notifier.ClientsCount(user))

	notifier.RemoveClient(user, second)
	assert.Equal(t, 0, notifier.ClientsCount(user))

	// повторное удаление ничего не ломает
	notifier.RemoveClient(user, second)
}

func TestSSENotifier_CloseEndsStreams(t *testing.T) {
	notifier := NewSSENotifier(contextkeys.NoopLogger())
	user := uuid.New()
	ch := notifier.AddClient(user)

	require.NoError(t, notifier.Close())
	require.NoError(t, notifier.Close())

	_, open := <-ch
	assert.False(t, open)

	// после остановки Notify не блокируется, а новые клиенты сразу получают закрытый канал
	notifier.Notify(context.Background(), newNotification(user))
	_, open = <-notifier.AddClient(user)
	assert.False(t, open)
}
