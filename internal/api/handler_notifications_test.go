package api

import (
	"bufio"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"limpiabnb-backend/internal/notification"
)

func TestStreamNotifications_DeliversPublishedNotices(t *testing.T) {
	gin.SetMode(gin.TestMode)
	bus := notification.NewBus(10)
	handler := NewHandler(nil, bus, nil, nil, nil)

	r := gin.New()
	r.GET("/api/notifications/stream", handler.StreamNotifications)

	srv := httptest.NewServer(r)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/notifications/stream")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Eventually(t, func() bool { return bus.Subscribers() == 1 }, time.Second, 5*time.Millisecond)
	bus.Publish(notification.Notice{Category: notification.CategoryStock, Title: "Stock Bajo"})

	lines := make(chan string, 8)
	go func() {
		reader := bufio.NewReader(resp.Body)
		for {
			line, err := reader.ReadString('\n')
			if err != nil {
				close(lines)
				return
			}
			lines <- line
		}
	}()

	deadline := time.After(2 * time.Second)
	for {
		select {
		case line, ok := <-lines:
			require.True(t, ok, "stream closed before the notice arrived")
			if strings.Contains(line, "Stock Bajo") {
				return
			}
		case <-deadline:
			t.Fatal("timed out waiting for streamed notice")
		}
	}
}
