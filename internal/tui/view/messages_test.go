package view

import (
	"strings"
	"testing"

	"github.com/Iron-Ham/duechat/internal/conversation"
	"github.com/Iron-Ham/duechat/internal/format"
)

const optionsText = "Here are some options:\n" +
	"1. Plan A: Pay in full today\n" +
	"2. **Plan B**: Three monthly installments\n" +
	"Which option works best for you?"

func assistant(text string) conversation.Message {
	return conversation.Message{Role: conversation.RoleAssistant, Content: text}
}

func user(text string) conversation.Message {
	return conversation.Message{Role: conversation.RoleUser, Content: text}
}

func TestActiveChoices(t *testing.T) {
	f := format.New()
	plans := []conversation.Plan{{Name: "Settlement", Description: "One-time 80%"}}

	tests := []struct {
		name       string
		state      *conversation.State
		wantLabels []string
		wantReply  string
		wantInline bool
	}{
		{
			name:  "nil state",
			state: nil,
		},
		{
			name: "options in latest assistant message",
			state: &conversation.State{
				AwaitingUser: true,
				Messages:     []conversation.Message{assistant(optionsText)},
				OfferedPlans: plans,
			},
			wantLabels: []string{"1. Plan A", "2. Plan B"},
			wantReply:  "1. Plan A",
			wantInline: true,
		},
		{
			name: "plans when the message has no options",
			state: &conversation.State{
				AwaitingUser: true,
				Messages:     []conversation.Message{assistant("How would you like to pay?")},
				OfferedPlans: plans,
			},
			wantLabels: []string{"Settlement"},
			wantReply:  "Settlement",
		},
		{
			name: "options of an older message are not active",
			state: &conversation.State{
				AwaitingUser: true,
				Messages:     []conversation.Message{assistant(optionsText), user("1. Plan A")},
			},
		},
		{
			name: "not awaiting user",
			state: &conversation.State{
				Messages: []conversation.Message{assistant(optionsText)},
			},
		},
		{
			name: "complete",
			state: &conversation.State{
				AwaitingUser: true,
				IsComplete:   true,
				Messages:     []conversation.Message{assistant(optionsText)},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			choices, inline := ActiveChoices(f, tt.state)
			if inline != tt.wantInline {
				t.Errorf("inline = %v, want %v", inline, tt.wantInline)
			}
			if len(choices) != len(tt.wantLabels) {
				t.Fatalf("len(choices) = %d, want %d", len(choices), len(tt.wantLabels))
			}
			for i, want := range tt.wantLabels {
				if choices[i].Label != want {
					t.Errorf("choices[%d].Label = %q, want %q", i, choices[i].Label, want)
				}
			}
			if len(choices) > 0 && choices[0].Reply != tt.wantReply {
				t.Errorf("choices[0].Reply = %q, want %q", choices[0].Reply, tt.wantReply)
			}
		})
	}
}

func TestRenderTranscript(t *testing.T) {
	f := format.New()

	t.Run("options message", func(t *testing.T) {
		out := RenderTranscript(f, TranscriptState{
			Messages:      []conversation.Message{assistant(optionsText)},
			FocusedOption: 1,
			Width:         100,
		})
		for _, want := range []string{
			AssistantName,
			"Here are some options:",
			"Plan A",
			"Pay in full today",
			"▸ Plan B",
			"Three monthly installments",
			"Which option works best for you?",
		} {
			if !strings.Contains(out, want) {
				t.Errorf("expected output to contain %q, got:\n%s", want, out)
			}
		}
		if strings.Contains(out, "**") {
			t.Errorf("emphasis markers should be stripped, got:\n%s", out)
		}
	})

	t.Run("focus applies only to the latest message", func(t *testing.T) {
		out := RenderTranscript(f, TranscriptState{
			Messages:      []conversation.Message{assistant(optionsText), user("hello")},
			FocusedOption: 0,
			Width:         100,
		})
		if strings.Contains(out, "▸") {
			t.Errorf("older options should not be focused, got:\n%s", out)
		}
	})

	t.Run("pending and typing", func(t *testing.T) {
		out := RenderTranscript(f, TranscriptState{
			Messages: []conversation.Message{assistant("Hello")},
			Pending:  "I already paid",
			Typing:   true,
			Spinner:  "*",
			Width:    80,
		})
		for _, want := range []string{"Hello", "I already paid", "typing..."} {
			if !strings.Contains(out, want) {
				t.Errorf("expected output to contain %q, got:\n%s", want, out)
			}
		}
		if strings.Index(out, "I already paid") > strings.Index(out, "typing...") {
			t.Error("pending message should come before the typing indicator")
		}
	})

	t.Run("timestamps", func(t *testing.T) {
		msg := assistant("Hi")
		msg.Timestamp = "10:30 AM"
		hidden := RenderTranscript(f, TranscriptState{Messages: []conversation.Message{msg}, Width: 80})
		if strings.Contains(hidden, "10:30 AM") {
			t.Error("timestamp should be hidden by default")
		}
		shown := RenderTranscript(f, TranscriptState{Messages: []conversation.Message{msg}, Width: 80, ShowTimestamps: true})
		if !strings.Contains(shown, "10:30 AM") {
			t.Errorf("timestamp should be shown, got:\n%s", shown)
		}
	})

	t.Run("empty transcript", func(t *testing.T) {
		if out := RenderTranscript(f, TranscriptState{Width: 80}); out != "" {
			t.Errorf("expected empty output, got %q", out)
		}
	})
}

func TestRenderMessage_UserRightAligned(t *testing.T) {
	out := RenderMessage(format.New(), user("yes"), 60, NoOption, false)
	if !strings.HasPrefix(out, " ") {
		t.Errorf("user message should be right-aligned, got %q", out)
	}
	if !strings.Contains(out, "yes") {
		t.Errorf("expected output to contain the message, got %q", out)
	}
}

func TestRenderMessage_PlainKeepsText(t *testing.T) {
	out := RenderMessage(format.New(), assistant("Your EMI is due."), 80, NoOption, false)
	if !strings.Contains(out, "Your EMI is due.") {
		t.Errorf("expected plain text, got %q", out)
	}
}

func TestRenderPlans(t *testing.T) {
	if out := RenderPlans(nil, NoOption, 80); out != "" {
		t.Errorf("RenderPlans(nil) = %q, want empty", out)
	}

	plans := []conversation.Plan{
		{Name: "Settlement", Description: "One-time payment"},
		{Name: "EMI", Description: "Six installments"},
	}
	out := RenderPlans(plans, 1, 80)
	for _, want := range []string{"Select a payment option:", "Settlement", "One-time payment", "▸ EMI"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q, got:\n%s", want, out)
		}
	}
}
