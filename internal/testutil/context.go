package testutil

import (
	"sync"

	telebot "gopkg.in/telebot.v3"
)

// Outgoing kinds recorded by FakeContext.
const (
	KindSend    = "send"
	KindReply   = "reply"
	KindRespond = "respond"
)

// Outgoing is one call a handler made on the context.
type Outgoing struct {
	Kind      string
	Text      string
	Markup    *telebot.ReplyMarkup
	ParseMode telebot.ParseMode
}

// FakeContext is a telebot.Context that records outbound calls instead of
// talking to Telegram. Methods it does not override panic if called.
type FakeContext struct {
	telebot.Context

	mu       sync.Mutex
	sender   *telebot.User
	message  *telebot.Message
	callback *telebot.Callback
	store    map[string]interface{}
	outgoing []Outgoing

	// SendErr, when set, is returned by Send and Reply.
	SendErr error
}

// NewTextContext simulates an incoming text message.
func NewTextContext(userID int64, text string) *FakeContext {
	sender := &telebot.User{ID: userID}
	return &FakeContext{
		sender:  sender,
		message: &telebot.Message{ID: 1, Sender: sender, Chat: &telebot.Chat{ID: userID}, Text: text},
		store:   make(map[string]interface{}),
	}
}

// NewCallbackContext simulates a button click carrying data.
func NewCallbackContext(userID int64, data string) *FakeContext {
	sender := &telebot.User{ID: userID}
	msg := &telebot.Message{ID: 2, Sender: sender, Chat: &telebot.Chat{ID: userID}}
	return &FakeContext{
		sender:   sender,
		message:  msg,
		callback: &telebot.Callback{ID: "cb-1", Sender: sender, Message: msg, Data: data},
		store:    make(map[string]interface{}),
	}
}

func (c *FakeContext) Sender() *telebot.User {
	return c.sender
}

func (c *FakeContext) Message() *telebot.Message {
	return c.message
}

func (c *FakeContext) Callback() *telebot.Callback {
	return c.callback
}

func (c *FakeContext) Text() string {
	if c.message == nil {
		return ""
	}
	return c.message.Text
}

func (c *FakeContext) Send(what interface{}, opts ...interface{}) error {
	return c.record(KindSend, what, opts)
}

func (c *FakeContext) Reply(what interface{}, opts ...interface{}) error {
	return c.record(KindReply, what, opts)
}

func (c *FakeContext) Respond(resp ...*telebot.CallbackResponse) error {
	text := ""
	if len(resp) > 0 && resp[0] != nil {
		text = resp[0].Text
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.outgoing = append(c.outgoing, Outgoing{Kind: KindRespond, Text: text})
	return nil
}

func (c *FakeContext) Get(key string) interface{} {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.store[key]
}

func (c *FakeContext) Set(key string, val interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store[key] = val
}

// Outgoing returns a copy of everything recorded so far.
func (c *FakeContext) Outgoing() []Outgoing {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Outgoing, len(c.outgoing))
	copy(out, c.outgoing)
	return out
}

// Kinds returns the recorded call kinds in order.
func (c *FakeContext) Kinds() []string {
	out := c.Outgoing()
	kinds := make([]string, len(out))
	for i, o := range out {
		kinds[i] = o.Kind
	}
	return kinds
}

func (c *FakeContext) record(kind string, what interface{}, opts []interface{}) error {
	if c.SendErr != nil {
		return c.SendErr
	}

	out := Outgoing{Kind: kind}
	if text, ok := what.(string); ok {
		out.Text = text
	}

	for _, opt := range opts {
		switch v := opt.(type) {
		case *telebot.ReplyMarkup:
			out.Markup = v
		case telebot.ParseMode:
			out.ParseMode = v
		case *telebot.SendOptions:
			if v.ReplyMarkup != nil {
				out.Markup = v.ReplyMarkup
			}
			if v.ParseMode != "" {
				out.ParseMode = v.ParseMode
			}
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.outgoing = append(c.outgoing, out)
	return nil
}
