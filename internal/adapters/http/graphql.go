package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/graphql-go/graphql"

	"github.com/samirrijal/quickcash/internal/core/domain"
)

// buildSchema creates the GraphQL schema wired to our services.
// Object fields resolve through the json tags of the domain types.
func buildSchema(deps *Dependencies) (graphql.Schema, error) {
	geoPointType := graphql.NewObject(graphql.ObjectConfig{
		Name: "GeoPoint",
		Fields: graphql.Fields{
			"lat": &graphql.Field{Type: graphql.Float},
			"lon": &graphql.Field{Type: graphql.Float},
		},
	})

	jobType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Job",
		Fields: graphql.Fields{
			"id":             &graphql.Field{Type: graphql.String},
			"name":           &graphql.Field{Type: graphql.String},
			"description":    &graphql.Field{Type: graphql.String},
			"category":       &graphql.Field{Type: graphql.String},
			"employer_email": &graphql.Field{Type: graphql.String},
			"location":       &graphql.Field{Type: geoPointType},
			"salary":         &graphql.Field{Type: graphql.Float},
			"status":         &graphql.Field{Type: graphql.String},
			"distance_km":    &graphql.Field{Type: graphql.Float},
			"created_at":     &graphql.Field{Type: graphql.DateTime},
		},
	})

	applicationType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Application",
		Fields: graphql.Fields{
			"id":              &graphql.Field{Type: graphql.String},
			"job_id":          &graphql.Field{Type: graphql.String},
			"job_name":        &graphql.Field{Type: graphql.String},
			"applicant_email": &graphql.Field{Type: graphql.String},
			"message":         &graphql.Field{Type: graphql.String},
			"status":          &graphql.Field{Type: graphql.String},
			"created_at":      &graphql.Field{Type: graphql.DateTime},
		},
	})

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"jobsNearby": &graphql.Field{
				Type:        graphql.NewList(jobType),
				Description: "Open jobs within radius_km of a point, closest first",
				Args: graphql.FieldConfigArgument{
					"lat":       &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"lon":       &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"radius_km": &graphql.ArgumentConfig{Type: graphql.Float, DefaultValue: deps.MapRadiusKm},
					"limit":     &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 50},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					center := domain.GeoPoint{Lat: p.Args["lat"].(float64), Lon: p.Args["lon"].(float64)}
					radius := p.Args["radius_km"].(float64)
					limit := p.Args["limit"].(int)
					return deps.Jobs.Nearby(p.Context, center, radius, limit)
				},
			},
			"searchJobs": &graphql.Field{
				Type:        graphql.NewList(jobType),
				Description: "Search open jobs by name and category",
				Args: graphql.FieldConfigArgument{
					"query":    &graphql.ArgumentConfig{Type: graphql.String, DefaultValue: ""},
					"category": &graphql.ArgumentConfig{Type: graphql.String, DefaultValue: ""},
					"lat":      &graphql.ArgumentConfig{Type: graphql.Float},
					"lon":      &graphql.ArgumentConfig{Type: graphql.Float},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					var center *domain.GeoPoint
					lat, okLat := p.Args["lat"].(float64)
					lon, okLon := p.Args["lon"].(float64)
					if okLat && okLon {
						center = &domain.GeoPoint{Lat: lat, Lon: lon}
					}
					return deps.Jobs.Search(p.Context, p.Args["query"].(string), p.Args["category"].(string), center)
				},
			},
			"job": &graphql.Field{
				Type:        jobType,
				Description: "Get a job by ID",
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Jobs.GetByID(p.Context, p.Args["id"].(string))
				},
			},
			"applicationsForJob": &graphql.Field{
				Type:        graphql.NewList(applicationType),
				Description: "Applications received by a job",
				Args: graphql.FieldConfigArgument{
					"job_id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Applications.ListForJob(p.Context, p.Args["job_id"].(string))
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query: queryType,
	})
}

// GraphQLHandler serves the GraphQL endpoint.
func GraphQLHandler(deps *Dependencies) fiber.Handler {
	schema, err := buildSchema(deps)
	if err != nil {
		// This would be a programming error in the schema definition
		panic("graphql schema build: " + err.Error())
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
			Context:        c.UserContext(),
		})

		return c.JSON(result)
	}
}
