package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"MomentumScout/internal/model"
)

func sma(v float64) *float64 { return &v }

func sampleList(n int) model.RankedList {
	list := make(model.RankedList, n)
	for i := range list {
		list[i] = model.AssetResult{
			Asset: model.Asset{
				ID:     fmt.Sprintf("coin-%d", i+1),
				Symbol: fmt.Sprintf("c%d", i+1),
				Name:   fmt.Sprintf("Coin %d", i+1),
			},
			Indicators: model.IndicatorSnapshot{
				RSI: 25, MACD: 1.5, MACDSignal: 1.0,
				BollingerLBand: 102, BollingerHBand: 120, BollingerBandwidth: 0.16,
				StochasticK: 30, StochasticD: 20, Price: 100,
				SMA50: sma(110), SMA200: sma(100),
			},
			TotalScore: float64(n - i),
			Trend:      model.TrendPositive,
		}
	}
	return list
}

func TestFormatReport(t *testing.T) {
	out := FormatReport(sampleList(7), 5)

	assert.True(t, strings.HasPrefix(out, "Top 5 investment-worthy cryptocurrencies:\n"))
	assert.Contains(t, out, "1. Coin 1 (c1):\n  Total Score: 7.00\n  RSI: 25.00\n  MACD: 1.50\n  MACD Signal: 1.00\n")
	assert.Contains(t, out, "  Bollinger Lower Band: 102.00\n  Bollinger Upper Band: 120.00\n")
	assert.Contains(t, out, "  Stochastic %K: 30.00\n  Stochastic %D: 20.00\n  Bollinger Bandwidth: 0.16\n  Future Trend: Positive\n")
	assert.Contains(t, out, "5. Coin 5 (c5):")
	assert.NotContains(t, out, "6. Coin 6")
}

func TestFormatReport_FewerThanN(t *testing.T) {
	out := FormatReport(sampleList(2), 5)
	assert.Contains(t, out, "Top 2 ")
	assert.Equal(t, 2, strings.Count(out, "Total Score:"))

	assert.Equal(t, "No assets could be scored.\n", FormatReport(nil, 5))
}

func TestFormatTelegramReport_EscapesNames(t *testing.T) {
	list := sampleList(1)
	list[0].Name = "Fish & <Chips>"
	out := FormatTelegramReport(list, 5, 1, 3)

	assert.Contains(t, out, "Scored 1 of 3 assets")
	assert.Contains(t, out, "Fish &amp; &lt;Chips&gt;")
	assert.Contains(t, out, "(C1) score 1.00")
}

func TestFormatWatchlist(t *testing.T) {
	assert.Equal(t, "Watchlist is empty.", FormatWatchlist(nil))
	out := FormatWatchlist([]model.Asset{{ID: "bitcoin", Symbol: "btc", Name: "Bitcoin"}})
	assert.Contains(t, out, "(1)")
	assert.Contains(t, out, "Bitcoin (BTC)")
}

func newTestNotifier(srv *httptest.Server) *TelegramNotifier {
	return &TelegramNotifier{BaseURL: srv.URL, BotToken: "TOKEN", ChatID: "42", Client: srv.Client()}
}

func TestSend(t *testing.T) {
	var got map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/botTOKEN/sendMessage", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		fmt.Fprint(w, `{"ok":true}`)
	}))
	defer srv.Close()

	require.NoError(t, newTestNotifier(srv).Send(context.Background(), "<b>hi</b>"))
	assert.Equal(t, map[string]string{"chat_id": "42", "text": "<b>hi</b>", "parse_mode": "HTML"}, got)
}

func TestSendWithRetry_GivesUp(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		http.Error(w, `{"ok":false}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	err := newTestNotifier(srv).SendWithRetry(context.Background(), "x", 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 400")
	assert.Equal(t, int32(1), hits.Load())
}

func TestSendWithRetry_StopsOnCancel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	err := newTestNotifier(srv).SendWithRetry(ctx, "x", 3)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestStartPolling(t *testing.T) {
	var polls atomic.Int32
	replies := make(chan string, 4)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/botTOKEN/getUpdates":
			if polls.Add(1) == 1 {
				fmt.Fprint(w, `{"ok":true,"result":[
					{"update_id":1,"message":{"text":" /top ","chat":{"id":42}}},
					{"update_id":2,"message":{"text":"/rank","chat":{"id":99}}},
					{"update_id":3}
				]}`)
				return
			}
			assert.Equal(t, "4", r.URL.Query().Get("offset"))
			<-r.Context().Done()
		case "/botTOKEN/sendMessage":
			var p map[string]string
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&p))
			replies <- p["text"]
			fmt.Fprint(w, `{"ok":true}`)
		}
	}))
	defer srv.Close()

	var commands []string
	handler := func(cmd string) string {
		commands = append(commands, cmd)
		return "reply to " + cmd
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		newTestNotifier(srv).StartPolling(ctx, handler)
		close(done)
	}()

	select {
	case reply := <-replies:
		assert.Equal(t, "reply to /top", reply)
	case <-time.After(5 * time.Second):
		t.Fatal("no reply sent")
	}
	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("polling did not stop")
	}
	assert.Equal(t, []string{"/top"}, commands)
}
