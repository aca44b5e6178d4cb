// Package view provides the stateless renderers of the duechat TUI.
//
// Every renderer takes plain values (a [conversation.State], a formatter,
// a small state struct) and returns a string. None of them hold state or
// talk to the backend, so the model can call them from View on every frame.
//
// # Components
//
//   - [RenderPhoneEntry]: the phone-number screen shown before a session starts
//   - [RenderHeader]: customer initial, name, account and outstanding amount
//   - [RenderTranscript]: message bubbles, with options messages laid out as
//     intro / numbered options / closing question
//   - [RenderPlans]: plans offered by the backend outside the message text
//   - [RenderQuickReplies]: the Payment / Account / Callback / Help chips
//   - [RenderTyping]: the assistant typing indicator
//   - [RenderReminder]: the payment reminder, colored by urgency
//   - [RenderCompletion]: the "Call Completed" banner
//   - [RenderFeedback]: the rating modal
//   - [RenderError] and [RenderFallback]: the error line and the crash screen
//   - [RenderHelp]: the key hints for the current mode
package view
