package rabbitmq

import (
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
)

func TestDeathCount(t *testing.T) {
	tests := []struct {
		name    string
		headers amqp.Table
		want    int64
	}{
		{
			name:    "no headers",
			headers: nil,
			want:    0,
		},
		{
			name: "counts only the matching queue",
			headers: amqp.Table{
				"x-death": []any{
					amqp.Table{"queue": "notification_queue.retry", "count": int64(7), "reason": "expired"},
					amqp.Table{"queue": "notification_queue", "count": int64(3), "reason": "rejected"},
				},
			},
			want: 3,
		},
		{
			name: "int32 count",
			headers: amqp.Table{
				"x-death": []any{
					amqp.Table{"queue": "notification_queue", "count": int32(2)},
				},
			},
			want: 2,
		},
		{
			name: "malformed header",
			headers: amqp.Table{
				"x-death": "not-a-list",
			},
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DeathCount(tt.headers, "notification_queue"))
		})
	}
}
