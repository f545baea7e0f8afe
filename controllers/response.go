package controllers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/tunik/tunik-api/middleware"
	"github.com/tunik/tunik-api/services"
	"github.com/tunik/tunik-api/utils"
)

// respondData writes a successful envelope carrying data
func respondData(c *gin.Context, status int, data interface{}) {
	c.JSON(status, gin.H{
		"ok":   true,
		"data": data,
	})
}

// respondMessage writes a successful envelope carrying only a message
func respondMessage(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{
		"ok":  true,
		"msg": msg,
	})
}

// respondError writes the failure envelope for err. Internal causes are
// logged and never sent to the client.
func respondError(c *gin.Context, err error) {
	svcErr := services.AsError(err)
	if svcErr.Kind == services.KindInternal {
		log.Error().
			Err(svcErr.Err).
			Str("request_id", middleware.GetRequestID(c)).
			Str("path", c.Request.URL.Path).
			Msg(svcErr.Message)
	}

	c.JSON(svcErr.HTTPStatus(), gin.H{
		"ok":    false,
		"msg":   svcErr.Message,
		"error": string(svcErr.Kind),
	})
}

// bindBody decodes a JSON object body into a generic map for coercion
func bindBody(c *gin.Context) (map[string]interface{}, error) {
	var body map[string]interface{}
	if err := c.ShouldBindJSON(&body); err != nil {
		return nil, services.ValidationError("Invalid request data")
	}
	if body == nil {
		body = map[string]interface{}{}
	}
	return body, nil
}

// pathID parses a numeric path parameter
func pathID(c *gin.Context, name string) (uint, error) {
	id, err := utils.ParseID(c.Param(name))
	if err != nil {
		return 0, services.ValidationError("%s must be a positive integer", name)
	}
	return id, nil
}

// paramError turns a coercion failure into a ValidationError
func paramError(err error) error {
	var pe *utils.ParamError
	if errors.As(err, &pe) {
		return services.ValidationError("%s", pe.Error())
	}
	return services.ValidationError("Invalid request data")
}

// optionalQueryID parses an optional numeric query parameter
func optionalQueryID(c *gin.Context, keys ...string) (*uint, error) {
	for _, key := range keys {
		raw := c.Query(key)
		if raw == "" {
			continue
		}
		id, err := utils.ParseID(raw)
		if err != nil {
			return nil, services.ValidationError("%s must be a positive integer", key)
		}
		return &id, nil
	}
	return nil, nil
}

// firstQuery returns the first non-empty query parameter among keys
func firstQuery(c *gin.Context, keys ...string) string {
	for _, key := range keys {
		if v := c.Query(key); v != "" {
			return v
		}
	}
	return ""
}

// optionalPlate reads and normalizes a plate from the body
func optionalPlate(body map[string]interface{}) (*string, error) {
	raw, err := utils.OptionalString(body, "placa", "plate")
	if err != nil || raw == nil {
		return nil, err
	}
	plate := utils.NormalizePlate(*raw)
	return &plate, nil
}

// optionalItems reads the items list under any accepted key
func optionalItems(body map[string]interface{}) ([]interface{}, bool, error) {
	return utils.OptionalList(body, services.ItemsKeys...)
}
