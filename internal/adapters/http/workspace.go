package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/tkaczmarek/geoscope/internal/core/domain"
	"github.com/tkaczmarek/geoscope/internal/core/usecases"
)

// workspaceError maps service errors to API responses.
func workspaceError(c *fiber.Ctx, err error) error {
	var verr *usecases.ValidationError
	switch {
	case errors.As(err, &verr):
		return errBadRequest(c, verr.Message)
	case errors.Is(err, usecases.ErrNotFound):
		return errNotFound(c, "resource not found")
	case errors.Is(err, usecases.ErrForbidden):
		return errForbidden(c, "you do not own this resource")
	default:
		return errInternal(c, err.Error())
	}
}

func currentUser(c *fiber.Ctx) string {
	userID, _ := c.Locals("userID").(string)
	return userID
}

// ListGroupsHandler returns the caller's groups.
func ListGroupsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		groups, err := deps.Workspace.ListGroups(c.UserContext(), currentUser(c))
		if err != nil {
			return workspaceError(c, err)
		}
		return c.JSON(groups)
	}
}

// CreateGroupHandler creates a named group.
func CreateGroupHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body struct {
			Name string `json:"name"`
		}
		if err := c.BodyParser(&body); err != nil {
			return errBadRequest(c, "invalid request body")
		}

		group, err := deps.Workspace.CreateGroup(c.UserContext(), currentUser(c), body.Name)
		if err != nil {
			return workspaceError(c, err)
		}
		return c.Status(201).JSON(group)
	}
}

// DeleteGroupHandler removes a group and its features.
func DeleteGroupHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil {
			return errBadRequest(c, "invalid group id")
		}

		if err := deps.Workspace.DeleteGroup(c.UserContext(), currentUser(c), id); err != nil {
			return workspaceError(c, err)
		}
		return c.SendStatus(204)
	}
}

// ListFeaturesHandler returns features in one of the caller's groups.
func ListFeaturesHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil {
			return errBadRequest(c, "invalid group id")
		}

		features, err := deps.Workspace.ListFeatures(c.UserContext(), currentUser(c), id)
		if err != nil {
			return workspaceError(c, err)
		}
		return c.JSON(features)
	}
}

// SaveFeatureHandler stores a drawn geometry.
func SaveFeatureHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body struct {
			GroupID     int     `json:"groupId"`
			FeatureType string  `json:"featureType"`
			GeojsonData string  `json:"geojsonData"`
			Color       string  `json:"color"`
			Opacity     float64 `json:"opacity"`
		}
		if err := c.BodyParser(&body); err != nil {
			return errBadRequest(c, "invalid request body")
		}

		saved, err := deps.Workspace.SaveFeature(c.UserContext(), currentUser(c), &domain.SavedFeature{
			GroupID:     body.GroupID,
			FeatureType: body.FeatureType,
			GeojsonData: body.GeojsonData,
			Color:       body.Color,
			Opacity:     body.Opacity,
		})
		if err != nil {
			return workspaceError(c, err)
		}
		return c.Status(201).JSON(saved)
	}
}

// DeleteFeatureHandler removes a single saved geometry.
func DeleteFeatureHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil {
			return errBadRequest(c, "invalid feature id")
		}

		if err := deps.Workspace.DeleteFeature(c.UserContext(), currentUser(c), id); err != nil {
			return workspaceError(c, err)
		}
		return c.SendStatus(204)
	}
}
