// Package mongodb provides the document-store implementation of
// store.TaskStore, backed by a MongoDB collection through the official
// mongo-driver.
package mongodb
