package mongodb

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/tasktrack/tasktrack-api/internal/domain"
	"github.com/tasktrack/tasktrack-api/internal/platform/logger"
	"github.com/tasktrack/tasktrack-api/internal/store"
)

// TasksCollection is the name of the MongoDB collection holding tasks.
const TasksCollection = "tasks"

// taskDocument is the backend-native shape of a task in MongoDB. Field names
// match the canonical external representation so no renaming happens at the
// query layer; only the _id type differs.
type taskDocument struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Owner       string             `bson:"user_id"`
	Title       string             `bson:"title"`
	Description string             `bson:"description"`
	Completed   bool               `bson:"completed"`
	CreatedAt   time.Time          `bson:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at"`
}

// toDomain converts a stored document to the backend-agnostic task shape,
// normalizing the ObjectID to its 24-hex string form.
func (d *taskDocument) toDomain() *domain.Task {
	return &domain.Task{
		ID:          d.ID.Hex(),
		Owner:       d.Owner,
		Title:       d.Title,
		Description: d.Description,
		Completed:   d.Completed,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

// MongoTaskStore implements the store.TaskStore interface using a MongoDB
// collection as the storage backend.
//
// Identifiers are ObjectIDs, exposed to callers in their 24-hex string form.
// Every filter includes both _id and user_id, and updates and deletes use
// the collection's atomic find-and-modify operations, so ownership scoping
// and the write happen in one round trip.
type MongoTaskStore struct {
	coll   *mongo.Collection
	logger *slog.Logger
}

// NewMongoTaskStore creates a new MongoDB implementation of the TaskStore
// interface over the given database handle.
// If logger is nil, a default logger will be used.
func NewMongoTaskStore(db *mongo.Database, logger *slog.Logger) *MongoTaskStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &MongoTaskStore{
		coll:   db.Collection(TasksCollection),
		logger: logger.With(slog.String("component", "task_store")),
	}
}

// Ensure MongoTaskStore implements store.TaskStore interface
var _ store.TaskStore = (*MongoTaskStore)(nil)

// EnsureIndexes creates the owner/created_at index used by ListByOwner.
// Called once at startup; CreateOne is a no-op when the index already exists.
func (s *MongoTaskStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "user_id", Value: 1},
			{Key: "created_at", Value: -1},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create task indexes: %w", err)
	}
	return nil
}

// ValidateID implements store.TaskStore.ValidateID.
// A document-store task identifier is exactly 24 hexadecimal characters,
// case-insensitive. Everything else is rejected before any query.
func (s *MongoTaskStore) ValidateID(id string) error {
	if _, err := primitive.ObjectIDFromHex(id); err != nil {
		return fmt.Errorf("%w: %q is not a valid task identifier", store.ErrInvalidID, id)
	}
	return nil
}

// Create implements store.TaskStore.Create.
func (s *MongoTaskStore) Create(
	ctx context.Context,
	owner, title, description string,
) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	task, err := domain.NewTask(owner, title, description)
	if err != nil {
		log.Warn("task validation failed during create",
			slog.String("error", err.Error()),
			slog.String("user_id", owner))
		return nil, fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	doc := taskDocument{
		ID:          primitive.NewObjectID(),
		Owner:       task.Owner,
		Title:       task.Title,
		Description: task.Description,
		Completed:   task.Completed,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}

	if _, err := s.coll.InsertOne(ctx, doc); err != nil {
		log.Error("failed to create task",
			slog.String("error", err.Error()),
			slog.String("user_id", owner))
		return nil, err
	}

	task.ID = doc.ID.Hex()

	log.Info("task created",
		slog.String("task_id", task.ID),
		slog.String("user_id", owner))
	return task, nil
}

// ListByOwner implements store.TaskStore.ListByOwner.
func (s *MongoTaskStore) ListByOwner(ctx context.Context, owner string) ([]*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := s.coll.Find(ctx, bson.M{"user_id": owner}, opts)
	if err != nil {
		log.Error("failed to list tasks",
			slog.String("error", err.Error()),
			slog.String("user_id", owner))
		return nil, err
	}
	defer func() {
		if cerr := cursor.Close(ctx); cerr != nil {
			log.Warn("failed to close cursor", slog.String("error", cerr.Error()))
		}
	}()

	tasks := []*domain.Task{}
	for cursor.Next(ctx) {
		var doc taskDocument
		if err := cursor.Decode(&doc); err != nil {
			log.Error("failed to decode task document",
				slog.String("error", err.Error()),
				slog.String("user_id", owner))
			return nil, err
		}
		tasks = append(tasks, doc.toDomain())
	}
	if err := cursor.Err(); err != nil {
		log.Error("task cursor iteration failed",
			slog.String("error", err.Error()),
			slog.String("user_id", owner))
		return nil, err
	}

	return tasks, nil
}

// GetByIDAndOwner implements store.TaskStore.GetByIDAndOwner.
// Returns store.ErrTaskNotFound whether the task is absent or belongs to a
// different owner; the two cases are indistinguishable by design.
func (s *MongoTaskStore) GetByIDAndOwner(
	ctx context.Context,
	owner, id string,
) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	oid, err := s.parseID(id)
	if err != nil {
		return nil, err
	}

	var doc taskDocument
	err = s.coll.FindOne(ctx, bson.M{"_id": oid, "user_id": owner}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			log.Debug("task not found",
				slog.String("task_id", id),
				slog.String("user_id", owner))
			return nil, store.ErrTaskNotFound
		}
		log.Error("failed to get task",
			slog.String("error", err.Error()),
			slog.String("task_id", id),
			slog.String("user_id", owner))
		return nil, err
	}

	return doc.toDomain(), nil
}

// UpdateByIDAndOwner implements store.TaskStore.UpdateByIDAndOwner.
// FindOneAndUpdate applies the owner-scoped filter and the replacement in
// one atomic operation and returns the document as written.
func (s *MongoTaskStore) UpdateByIDAndOwner(
	ctx context.Context,
	owner, id, title, description string,
	completed bool,
) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	oid, err := s.parseID(id)
	if err != nil {
		return nil, err
	}

	title, err = normalizeUpdateTitle(owner, title)
	if err != nil {
		log.Warn("task validation failed during update",
			slog.String("error", err.Error()),
			slog.String("task_id", id),
			slog.String("user_id", owner))
		return nil, err
	}

	update := bson.M{"$set": bson.M{
		"title":       title,
		"description": description,
		"completed":   completed,
		"updated_at":  time.Now().UTC(),
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc taskDocument
	err = s.coll.FindOneAndUpdate(
		ctx,
		bson.M{"_id": oid, "user_id": owner},
		update,
		opts,
	).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			log.Debug("task not found for update",
				slog.String("task_id", id),
				slog.String("user_id", owner))
			return nil, store.ErrTaskNotFound
		}
		log.Error("failed to update task",
			slog.String("error", err.Error()),
			slog.String("task_id", id),
			slog.String("user_id", owner))
		return nil, err
	}

	log.Info("task updated",
		slog.String("task_id", id),
		slog.String("user_id", owner))
	return doc.toDomain(), nil
}

// DeleteByIDAndOwner implements store.TaskStore.DeleteByIDAndOwner.
// FindOneAndDelete removes the document atomically under the owner-scoped
// filter and returns its last state.
func (s *MongoTaskStore) DeleteByIDAndOwner(
	ctx context.Context,
	owner, id string,
) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	oid, err := s.parseID(id)
	if err != nil {
		return nil, err
	}

	var doc taskDocument
	err = s.coll.FindOneAndDelete(ctx, bson.M{"_id": oid, "user_id": owner}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			log.Debug("task not found for delete",
				slog.String("task_id", id),
				slog.String("user_id", owner))
			return nil, store.ErrTaskNotFound
		}
		log.Error("failed to delete task",
			slog.String("error", err.Error()),
			slog.String("task_id", id),
			slog.String("user_id", owner))
		return nil, err
	}

	log.Info("task deleted",
		slog.String("task_id", id),
		slog.String("user_id", owner))
	return doc.toDomain(), nil
}

// parseID converts an already-validated external identifier to an ObjectID.
// Repository methods call it so a handler that skipped ValidateID still gets
// ErrInvalidID instead of a driver error.
func (s *MongoTaskStore) parseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID,
			fmt.Errorf("%w: %q is not a valid task identifier", store.ErrInvalidID, id)
	}
	return oid, nil
}

// normalizeUpdateTitle trims and validates the replacement title the same
// way task creation does, so an update can never persist whitespace that a
// create would have stripped. Returns the trimmed title.
func normalizeUpdateTitle(owner, title string) (string, error) {
	title = strings.TrimSpace(title)
	candidate := domain.Task{Owner: owner, Title: title}
	if err := candidate.Validate(); err != nil {
		return "", fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}
	return title, nil
}
