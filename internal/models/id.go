package models

import "go.mongodb.org/mongo-driver/v2/bson"

// IDLength is the length of every entity identifier
const IDLength = 24

// NewID returns a fresh 24-character hex identifier
func NewID() string {
	return bson.NewObjectID().Hex()
}
