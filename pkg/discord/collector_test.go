package discord

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func button(customID, userID string) *discordgo.InteractionCreate {
	return &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
		Type:    discordgo.InteractionMessageComponent,
		Member:  &discordgo.Member{User: &discordgo.User{ID: userID}},
		Message: &discordgo.Message{ID: "m1"},
		Data:    discordgo.MessageComponentInteractionData{CustomID: customID},
	}}
}

func modal(customID, userID string) *discordgo.InteractionCreate {
	return &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
		Type:   discordgo.InteractionModalSubmit,
		Member: &discordgo.Member{User: &discordgo.User{ID: userID}},
		Data:   discordgo.ModalSubmitInteractionData{CustomID: customID},
	}}
}

func TestCollectorTimeoutTearsDownOnce(t *testing.T) {
	defer goleak.VerifyNone(t)

	router := NewComponentRouter(time.Minute)
	var ends atomic.Int32
	var collected atomic.Int32
	ended := make(chan EndReason, 2)

	c := router.Collect(CollectorOptions{
		CustomID:  "next",
		Timeout:   20 * time.Millisecond,
		OnCollect: func(*discordgo.InteractionCreate) { collected.Add(1) },
		OnEnd: func(reason EndReason, _ int) {
			ends.Add(1)
			ended <- reason
		},
	})
	assert.Equal(t, 1, router.Len())

	select {
	case reason := <-ended:
		assert.Equal(t, EndTimeout, reason)
	case <-time.After(2 * time.Second):
		t.Fatal("collector did not time out")
	}

	<-c.Done()
	assert.False(t, router.Dispatch(button("next", "u")), "nothing is delivered after teardown")
	c.Stop()

	assert.Equal(t, int32(1), ends.Load())
	assert.Zero(t, collected.Load())
	assert.Zero(t, router.Len())
	assert.Equal(t, EndTimeout, c.Reason())
}

func TestCollectorMaxAndFilter(t *testing.T) {
	defer goleak.VerifyNone(t)

	router := NewComponentRouter(time.Minute)
	var got []string
	var endReason EndReason
	var endCount int

	c := router.Collect(CollectorOptions{
		CustomIDPrefix: "page:",
		Filter: func(i *discordgo.InteractionCreate) bool {
			return InteractionUser(i).ID == "owner"
		},
		Max:       2,
		OnCollect: func(i *discordgo.InteractionCreate) { got = append(got, InteractionCustomID(i)) },
		OnEnd: func(reason EndReason, n int) {
			endReason, endCount = reason, n
		},
	})

	assert.False(t, router.Dispatch(button("page:1", "intruder")))
	assert.False(t, router.Dispatch(button("other", "owner")))
	assert.True(t, router.Dispatch(button("page:1", "owner")))
	assert.True(t, router.Dispatch(button("page:2", "owner")))
	assert.False(t, router.Dispatch(button("page:3", "owner")))

	assert.Equal(t, []string{"page:1", "page:2"}, got)
	assert.Equal(t, EndLimit, endReason)
	assert.Equal(t, 2, endCount)
	assert.Equal(t, 2, c.Collected())
	assert.Zero(t, router.Len())
}

func TestCollectorStopFromCallback(t *testing.T) {
	defer goleak.VerifyNone(t)

	router := NewComponentRouter(time.Minute)
	var c *Collector
	ends := 0
	c = router.Collect(CollectorOptions{
		MessageID: "m1",
		OnCollect: func(*discordgo.InteractionCreate) { c.Stop() },
		OnEnd:     func(EndReason, int) { ends++ },
	})

	assert.True(t, router.Dispatch(button("anything", "u")))
	assert.False(t, router.Dispatch(button("anything", "u")))
	assert.Equal(t, 1, ends)
	assert.Equal(t, EndStopped, c.Reason())
}

func TestCollectorTimeoutWaitsForRunningCollect(t *testing.T) {
	defer goleak.VerifyNone(t)

	router := NewComponentRouter(time.Minute)
	entered := make(chan struct{})
	release := make(chan struct{})
	var mu sync.Mutex
	var order []string
	c := router.Collect(CollectorOptions{
		MessageID: "m1",
		Timeout:   20 * time.Millisecond,
		OnCollect: func(*discordgo.InteractionCreate) {
			close(entered)
			<-release
			mu.Lock()
			order = append(order, "collect")
			mu.Unlock()
		},
		OnEnd: func(EndReason, int) {
			mu.Lock()
			order = append(order, "end")
			mu.Unlock()
		},
	})

	go router.Dispatch(button("page", "u"))
	<-entered
	time.Sleep(60 * time.Millisecond)

	select {
	case <-c.Done():
		t.Fatal("collector torn down while OnCollect was running")
	default:
	}
	assert.False(t, router.Dispatch(button("page", "u")))

	close(release)
	select {
	case <-c.Done():
	case <-time.After(time.Second):
		t.Fatal("collector never ended")
	}
	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(order) == 2
	}, time.Second, 5*time.Millisecond)
	mu.Lock()
	assert.Equal(t, []string{"collect", "end"}, order)
	mu.Unlock()
	assert.Equal(t, EndTimeout, c.Reason())
}

func TestCollectorConcurrentMax(t *testing.T) {
	defer goleak.VerifyNone(t)

	router := NewComponentRouter(time.Minute)
	var delivered atomic.Int32
	router.Collect(CollectorOptions{
		CustomID:  "once",
		Max:       1,
		OnCollect: func(*discordgo.InteractionCreate) { delivered.Add(1) },
	})

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			router.Dispatch(button("once", "u"))
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), delivered.Load())
}

func TestAwaitModal(t *testing.T) {
	defer goleak.VerifyNone(t)

	router := NewComponentRouter(time.Minute)
	done := make(chan struct{})
	var got *discordgo.InteractionCreate
	var err error
	go func() {
		defer close(done)
		got, err = router.AwaitModal(context.Background(), "sayModal", "owner", time.Second)
	}()

	require.Eventually(t, func() bool { return router.Len() == 1 }, time.Second, time.Millisecond)
	assert.False(t, router.Dispatch(modal("sayModal", "someone")))
	assert.True(t, router.Dispatch(modal("sayModal", "owner")))
	<-done

	require.NoError(t, err)
	assert.Equal(t, "sayModal", InteractionCustomID(got))
	assert.Zero(t, router.Len())
}

func TestAwaitModalTimeoutAndCancel(t *testing.T) {
	defer goleak.VerifyNone(t)

	router := NewComponentRouter(time.Minute)
	_, err := router.AwaitModal(context.Background(), "m", "u", 10*time.Millisecond)
	assert.ErrorIs(t, err, ErrCollectorTimeout)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = router.AwaitModal(ctx, "m", "u", time.Minute)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, router.Len())
}

func TestNewCustomID(t *testing.T) {
	a, b := NewCustomID("warnings"), NewCustomID("warnings")
	assert.NotEqual(t, a, b)
	assert.Contains(t, a, "warnings:")
}

func TestModalValue(t *testing.T) {
	i := modal("sayModal", "owner")
	i.Data = discordgo.ModalSubmitInteractionData{
		CustomID: "sayModal",
		Components: []discordgo.MessageComponent{
			&discordgo.ActionsRow{Components: []discordgo.MessageComponent{
				&discordgo.TextInput{CustomID: "messageInput", Value: "hola"},
			}},
		},
	}

	assert.Equal(t, "hola", ModalValue(i, "messageInput"))
	assert.Empty(t, ModalValue(i, "imageInput"))
	assert.Empty(t, ModalValue(button("b", "owner"), "messageInput"))
}
