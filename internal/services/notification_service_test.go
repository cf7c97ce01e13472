// internal/services/notification_service_test.go
package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/agrolink/agrolink-backend/internal/models"
)

func TestContractEventMessages(t *testing.T) {
	c := contract(models.ProductTypeSoybean, models.ContractStatusPending, "40", "52.50")

	cases := []struct {
		event models.NotificationType
		want  string
	}{
		{models.NotificationContractProposed, "New contract proposal for 40 kg of Soybean at 52.50 per kg"},
		{models.NotificationContractAccepted, "Your contract for 40 kg of Soybean was accepted"},
		{models.NotificationContractRejected, "Your contract for 40 kg of Soybean was rejected"},
		{models.NotificationContractCancelled, "The proposal for 40 kg of Soybean was cancelled"},
		{models.NotificationContractCompleted, "Contract for 40 kg of Soybean was completed"},
	}

	for _, tc := range cases {
		t.Run(string(tc.event), func(t *testing.T) {
			assert.Equal(t, tc.want, contractEventMessage(&c, tc.event))
		})
	}
}

func TestNotificationRecipientIsCounterParty(t *testing.T) {
	c := contract(models.ProductTypeMustard, models.ContractStatusPending, "10", "60")

	// A farmer-initiated event lands with the trader and vice versa.
	assert.Equal(t, c.TraderID, c.PartyID(models.UserTypeFarmer.CounterParty()))
	assert.Equal(t, c.FarmerID, c.PartyID(models.UserTypeTrader.CounterParty()))
}
