package store

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// employeeValidator mirrors the employee shape so malformed documents are
// rejected by the store itself, independent of application validation.
var employeeValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{"employee_id", "name", "department", "salary", "joining_date"},
		"properties": bson.M{
			"employee_id":  bson.M{"bsonType": "string"},
			"name":         bson.M{"bsonType": "string"},
			"department":   bson.M{"bsonType": "string"},
			"salary":       bson.M{"bsonType": bson.A{"double", "int"}, "minimum": 0},
			"joining_date": bson.M{"bsonType": "date"},
			"skills":       bson.M{"bsonType": "array", "items": bson.M{"bsonType": "string"}},
		},
	},
}

// EnsureGuards installs the unique employee_id index and the schema
// validator. Installation is idempotent and best effort: a failure leaves
// the process running with the degraded state recorded for the health
// endpoint instead of aborting startup.
func (s *Store) EnsureGuards(ctx context.Context) GuardStatus {
	if err := s.ensureUniqueIndex(ctx); err != nil {
		s.log.Warn("unique index setup failed, duplicate detection relies on the application pre-check",
			zap.Error(err))
	} else {
		s.guards.IndexReady = true
	}

	if err := s.ensureValidator(ctx); err != nil {
		s.log.Warn("schema validator setup failed", zap.Error(err))
	} else {
		s.guards.ValidatorReady = true
	}

	return s.guards
}

func (s *Store) ensureUniqueIndex(ctx context.Context) error {
	opCtx, cancel := s.OpContext(ctx)
	defer cancel()

	_, err := s.employees.Indexes().CreateOne(opCtx, mongo.IndexModel{
		Keys:    bson.D{{Key: "employee_id", Value: 1}},
		Options: options.Index().SetName("uniq_employee_id").SetUnique(true),
	})
	return err
}

func (s *Store) ensureValidator(ctx context.Context) error {
	opCtx, cancel := s.OpContext(ctx)
	defer cancel()

	res := s.db.RunCommand(opCtx, bson.D{
		{Key: "collMod", Value: s.employees.Name()},
		{Key: "validator", Value: employeeValidator},
	})
	err := res.Err()
	if err == nil {
		return nil
	}

	// collMod cannot target a collection that does not exist yet.
	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) && cmdErr.Name == "NamespaceNotFound" {
		return s.db.CreateCollection(opCtx, s.employees.Name(),
			options.CreateCollection().SetValidator(employeeValidator))
	}
	return err
}
