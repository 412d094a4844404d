package middleware

import (
	"encoding/json"
	"log"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/Auwalkay/uni-portal/model"
)

// AuditLog records privileged mutations after they succeed. Failures
// to write the trail never fail the request; they are logged and the
// response goes out as-is.
func AuditLog(db *gorm.DB, action, resource string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()
		if err != nil || c.Response().StatusCode() >= 400 {
			return err
		}

		userID, ok := GetUserID(c)
		if !ok {
			return nil
		}

		var resourceID uint
		if id := c.Params("id"); id != "" {
			if parsed, parseErr := strconv.ParseUint(id, 10, 32); parseErr == nil {
				resourceID = uint(parsed)
			}
		}

		// Both value columns are jsonb; keep them valid JSON even when
		// the request had no body.
		newValue := "{}"
		if body := c.Body(); json.Valid(body) && len(body) > 0 && len(body) <= 8192 {
			newValue = string(body)
		}

		entry := model.AdminAuditLog{
			AdminID:    userID,
			Action:     action,
			Resource:   resource,
			ResourceID: resourceID,
			OldValue:   "{}",
			NewValue:   newValue,
			IPAddress:  c.IP(),
			UserAgent:  c.Get("User-Agent"),
		}
		if writeErr := db.Create(&entry).Error; writeErr != nil {
			log.Printf("audit log write failed for %s/%s: %v", resource, action, writeErr)
		}
		return nil
	}
}
