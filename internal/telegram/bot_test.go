package telegram

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"floodalert/internal/geo"
	contacttypes "floodalert/internal/modules/contacts/types"
	risktypes "floodalert/internal/modules/risk/types"
	watchtypes "floodalert/internal/modules/watch/types"
)

type sent struct {
	chatID int64
	text   string
}

type fakeSender struct {
	mu  sync.Mutex
	out []sent
	ch  chan sent
}

func newFakeSender() *fakeSender { return &fakeSender{ch: make(chan sent, 16)} }

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	msg := c.(tgbotapi.MessageConfig)
	s := sent{chatID: msg.ChatID, text: msg.Text}
	f.mu.Lock()
	f.out = append(f.out, s)
	f.mu.Unlock()
	f.ch <- s
	return tgbotapi.Message{}, nil
}

func (f *fakeSender) next(t *testing.T) sent {
	t.Helper()
	select {
	case s := <-f.ch:
		return s
	case <-time.After(2 * time.Second):
		t.Fatal("no message sent")
		return sent{}
	}
}

type fakeRisk struct {
	release chan struct{}
}

func (f *fakeRisk) AssessLocation(ctx context.Context, p geo.Provider) risktypes.RiskAssessment {
	if f.release != nil {
		<-f.release
	}
	c, err := p.Locate(ctx)
	if err != nil {
		return risktypes.RiskAssessment{Summary: "Location unavailable. Assuming low risk."}
	}
	return risktypes.RiskAssessment{
		Coordinate:        &c,
		LocationAvailable: true,
		RiverLevel:        2.4,
		RainLevel:         -1,
		CombinedLevel:     2.4,
		Status:            risktypes.StatusRisk,
		Summary:           "Flood Risk Detected: 2.4 ft (Source: River Discharge)",
	}
}

func (f *fakeRisk) Evacuation(context.Context, geo.Provider) risktypes.EvacuationStatus {
	return risktypes.EvacuationStatus{InDanger: true, Title: "Flood Danger Detected", Message: "Go.", MapsURL: "https://maps.example"}
}

type fakeContacts struct{ state contacttypes.State }

func (f fakeContacts) Load(context.Context) contacttypes.State { return f.state }

func newTestBot(risk *fakeRisk, alerts ...int64) (*Bot, *fakeSender) {
	s := newFakeSender()
	contacts := fakeContacts{state: contacttypes.Success{Contacts: []contacttypes.Contact{{Name: "Police", Number: "100"}}}}
	return newBot(s, risk, contacts, alerts, slog.New(slog.NewTextHandler(io.Discard, nil))), s
}

func command(chatID int64, text string) *tgbotapi.Message {
	name := strings.SplitN(text, " ", 2)[0]
	return &tgbotapi.Message{
		Chat:     &tgbotapi.Chat{ID: chatID},
		Text:     text,
		Entities: []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: len(name)}},
	}
}

func TestCheckCommand(t *testing.T) {
	b, s := newTestBot(&fakeRisk{})
	defer b.close()

	b.handleMessage(context.Background(), command(42, "/check 19.02 72.845"))

	a, b2 := s.next(t), s.next(t)
	if a.chatID != 42 || a.text != replyWorking {
		t.Errorf("first reply = %+v; want acknowledgement", a)
	}
	if !strings.Contains(b2.text, "Flood Risk Detected: 2.4 ft") || !strings.Contains(b2.text, "Rain: unavailable") {
		t.Errorf("result = %q", b2.text)
	}
}

func TestCheckCommand_busy(t *testing.T) {
	risk := &fakeRisk{release: make(chan struct{})}
	b, s := newTestBot(risk)
	defer b.close()

	b.handleMessage(context.Background(), command(7, "/check 1 2"))
	s.next(t)
	b.handleMessage(context.Background(), &tgbotapi.Message{Chat: &tgbotapi.Chat{ID: 7}, Location: &tgbotapi.Location{Latitude: 1, Longitude: 2}})
	if got := s.next(t); got.text != "Already checking..." {
		t.Errorf("busy reply = %q", got.text)
	}

	// Another chat is not blocked by chat 7.
	b.handleMessage(context.Background(), command(8, "/check 1 2"))
	if got := s.next(t); got.chatID != 8 || got.text != replyWorking {
		t.Errorf("other chat reply = %+v", got)
	}
	close(risk.release)
	s.next(t)
	s.next(t)
}

func TestCommands(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{text: "/help", want: "/check <lat> <lon>"},
		{text: "/start", want: "Welcome to Flood Alert!"},
		{text: "/contacts", want: "Police: 100"},
		{text: "/tips", want: "During"},
		{text: "/check", want: replyUsage},
		{text: "/check 95 1", want: "out of range"},
		{text: "/evacuate 19 72", want: "Flood Danger Detected"},
		{text: "/nope", want: replyUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			b, s := newTestBot(&fakeRisk{})
			defer b.close()
			b.handleMessage(context.Background(), command(1, tt.text))
			if got := s.next(t); !strings.Contains(got.text, tt.want) {
				t.Errorf("reply = %q; want it to contain %q", got.text, tt.want)
			}
		})
	}
}

func TestPlainText(t *testing.T) {
	b, s := newTestBot(&fakeRisk{})
	defer b.close()
	b.handleMessage(context.Background(), &tgbotapi.Message{Chat: &tgbotapi.Chat{ID: 1}, Text: "hello"})
	if got := s.next(t); got.text != replyUnknown {
		t.Errorf("reply = %q", got.text)
	}
}

func TestNotifyChange(t *testing.T) {
	b, s := newTestBot(&fakeRisk{}, 100, 200)
	defer b.close()
	place := watchtypes.Place{ID: 1, Name: "Mumbai"}

	b.NotifyChange(context.Background(), watchtypes.Change{Place: place, Current: risktypes.RiskAssessment{Status: risktypes.StatusLow}})
	select {
	case got := <-s.ch:
		t.Fatalf("first quiet assessment sent %+v", got)
	default:
	}

	prev := risktypes.RiskAssessment{Status: risktypes.StatusLow, Summary: "Low immediate flood risk detected (0.0 ft)."}
	b.NotifyChange(context.Background(), watchtypes.Change{
		Place:    place,
		Previous: &prev,
		Current:  risktypes.RiskAssessment{Status: risktypes.StatusRisk, InDanger: true, Summary: "Flood Risk Detected: 3.0 ft (Source: Combined Risk)"},
	})
	first, second := s.next(t), s.next(t)
	if first.chatID != 100 || second.chatID != 200 {
		t.Errorf("alerted chats = %d, %d", first.chatID, second.chatID)
	}
	for _, want := range []string{"Flood watch: Mumbai", "3.0 ft", "Previously: Low", "rise sharply"} {
		if !strings.Contains(first.text, want) {
			t.Errorf("alert %q missing %q", first.text, want)
		}
	}
}

func TestFormatContacts(t *testing.T) {
	if got := FormatContacts(contacttypes.Failure{Message: "Failed to load contacts."}); got != "Failed to load contacts." {
		t.Errorf("failure = %q", got)
	}
	if got := FormatContacts(contacttypes.Success{}); got != "No emergency contacts configured." {
		t.Errorf("empty = %q", got)
	}
}

func TestFormatAssessment_noLocation(t *testing.T) {
	got := FormatAssessment(risktypes.RiskAssessment{Summary: "Location unavailable. Assuming low risk."})
	if got != "Location unavailable. Assuming low risk." {
		t.Errorf("FormatAssessment() = %q", got)
	}
}
