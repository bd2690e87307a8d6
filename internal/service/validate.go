package service

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var validate = validator.New()

// checkStruct runs the struct tags of a request payload before any
// write reaches the store.
func checkStruct(v any) error {
	if err := validate.Struct(v); err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return nil
}

// parseID turns an id string into an ObjectID, reporting a malformed
// id as a validation failure rather than a store error.
func parseID(field, hex string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: %s is not a valid id", ErrValidation, field)
	}
	return id, nil
}
