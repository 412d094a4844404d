package api

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/Auwalkay/uni-portal/utils/response"
)

type APIServer struct {
	app           *fiber.App
	listenAddress string
}

func NewAPIServer(listenAddress string) *APIServer {
	app := fiber.New(fiber.Config{
		AppName: "uni-portal-api",
		// Unhandled errors still leave in the standard envelope.
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			var fiberErr *fiber.Error
			if errors.As(err, &fiberErr) {
				return response.Error(c, fiberErr.Code, fiberErr.Message, "REQUEST_FAILED")
			}
			return response.InternalServerError(c, "Something went wrong")
		},
	})

	return &APIServer{
		app:           app,
		listenAddress: listenAddress,
	}
}

func (s *APIServer) GetEngine() *fiber.App {
	return s.app
}

func (s *APIServer) Run() error {
	log.Printf("University portal API listening on %s", s.listenAddress)

	return s.app.Listen(s.listenAddress)
}
