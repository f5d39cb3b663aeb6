package http

import (
	"context"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/graphql-go/graphql"

	"github.com/tkaczmarek/geoscope/internal/core/domain"
)

// buildSchema creates the read-only GraphQL schema over the caller's
// workspace. Feed data stays on REST; GraphQL exists for clients that want
// groups and features in one round trip.
func buildSchema(deps *Dependencies) (graphql.Schema, error) {
	featureType := graphql.NewObject(graphql.ObjectConfig{
		Name: "SavedFeature",
		Fields: graphql.Fields{
			"id":          &graphql.Field{Type: graphql.Int},
			"groupId":     &graphql.Field{Type: graphql.Int},
			"featureType": &graphql.Field{Type: graphql.String},
			"geojsonData": &graphql.Field{Type: graphql.String},
			"color":       &graphql.Field{Type: graphql.String},
			"opacity":     &graphql.Field{Type: graphql.Float},
			"createdAt":   &graphql.Field{Type: graphql.DateTime},
		},
	})

	groupType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Group",
		Fields: graphql.Fields{
			"id":        &graphql.Field{Type: graphql.Int},
			"name":      &graphql.Field{Type: graphql.String},
			"createdAt": &graphql.Field{Type: graphql.DateTime},
		},
	})

	// features resolves lazily per group so a bare groups query costs one
	// repository call.
	groupType.AddFieldConfig("features", &graphql.Field{
		Type: graphql.NewList(featureType),
		Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			g, ok := p.Source.(domain.Group)
			if !ok {
				return nil, nil
			}
			userID, _ := p.Context.Value(gqlUserKey).(string)
			return deps.Workspace.ListFeatures(p.Context, userID, g.ID)
		},
	})

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"groups": &graphql.Field{
				Type:        graphql.NewList(groupType),
				Description: "The caller's groups",
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					userID, _ := p.Context.Value(gqlUserKey).(string)
					return deps.Workspace.ListGroups(p.Context, userID)
				},
			},
			"features": &graphql.Field{
				Type:        graphql.NewList(featureType),
				Description: "Features in one of the caller's groups",
				Args: graphql.FieldConfigArgument{
					"groupId": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					userID, _ := p.Context.Value(gqlUserKey).(string)
					groupID := p.Args["groupId"].(int)
					return deps.Workspace.ListFeatures(p.Context, userID, groupID)
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query: queryType,
	})
}

type gqlCtxKey string

const gqlUserKey gqlCtxKey = "user"

func contextWithUser(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, gqlUserKey, userID)
}

// GraphQLHandler serves the GraphQL endpoint. Requests run behind
// RequireAuth, so the hashed identity is always present.
func GraphQLHandler(deps *Dependencies) fiber.Handler {
	schema, err := buildSchema(deps)
	if err != nil {
		// This would be a programming error in the schema definition
		panic(fmt.Sprintf("graphql schema build: %v", err))
	}

	type gqlRequest struct {
		Query         string                 `json:"query"`
		OperationName string                 `json:"operationName"`
		Variables     map[string]interface{} `json:"variables"`
	}

	return func(c *fiber.Ctx) error {
		var req gqlRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}

		result := graphql.Do(graphql.Params{
			Schema:         schema,
			RequestString:  req.Query,
			VariableValues: req.Variables,
			OperationName:  req.OperationName,
			Context:        contextWithUser(c.UserContext(), currentUser(c)),
		})

		return c.JSON(result)
	}
}
