package mongo_test

import (
	"context"
	"testing"
	"time"

	mongoadapter "github.com/robertarktes/movie-ticket-booking/internal/adapters/mongo"
	"github.com/robertarktes/movie-ticket-booking/internal/domain"
	"github.com/robertarktes/movie-ticket-booking/internal/events"
	"github.com/robertarktes/movie-ticket-booking/internal/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func TestAuditLogger_RecordIsIdempotentPerEvent(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
	ctx := context.Background()

	mongoContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "mongo:7",
			ExposedPorts: []string{"27017/tcp"},
			WaitingFor:   wait.ForLog("Waiting for connections"),
		},
		Started: true,
	})
	require.NoError(t, err)
	defer mongoContainer.Terminate(ctx)

	uri, err := mongoContainer.Endpoint(ctx, "mongodb")
	require.NoError(t, err)

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	require.NoError(t, err)
	defer client.Disconnect(ctx)

	db := client.Database("booking_test")
	audit := mongoadapter.NewAuditLogger(db, observability.NewNopLogger())

	booked := events.NewTicketEvent(events.TicketBooked,
		domain.Ticket{ID: 1, Name: "Alice", ShowID: 1, Movie: "Inception", Time: "7:00 PM"},
		time.Now().Add(-time.Minute))
	updated := events.NewTicketEvent(events.TicketUpdated,
		domain.Ticket{ID: 1, Name: "Alice", ShowID: 2, Movie: "Interstellar", Time: "9:00 PM"},
		time.Now())

	require.NoError(t, audit.Record(ctx, booked))
	require.NoError(t, audit.Record(ctx, updated))
	require.NoError(t, audit.Record(ctx, booked), "redelivery must be accepted")

	history := auditHistory(t, db, 1)
	require.Len(t, history, 2)
	assert.Equal(t, booked.ID.String(), history[0].ID)
	assert.Equal(t, "ticket.booked", history[0].Action)
	assert.Equal(t, updated.ID.String(), history[1].ID)
	assert.Equal(t, "ticket.updated", history[1].Action)
	assert.Equal(t, "Interstellar", history[1].Data["movie"])
}

func auditHistory(t *testing.T, db *mongo.Database, ticketID int) []mongoadapter.AuditLog {
	t.Helper()
	ctx := context.Background()
	opts := options.Find().SetSort(bson.D{{Key: "occurred_at", Value: 1}})
	cur, err := db.Collection("audit_logs").Find(ctx, bson.M{"ticket_id": ticketID}, opts)
	require.NoError(t, err)
	defer cur.Close(ctx)

	var logs []mongoadapter.AuditLog
	require.NoError(t, cur.All(ctx, &logs))
	return logs
}
