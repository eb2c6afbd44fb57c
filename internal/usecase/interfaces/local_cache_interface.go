package interfaces

import "encoding/json"

// Cache key namespaces. The cache is shared by every owner in the process, so
// collection keys carry the owner id; draft entries append the project id to
// KeyProjectDraftPrefix.
const (
	keyCachedProjectsPrefix = "cached_projects:"
	keyCachedClientsPrefix  = "cached_clients:"
	keyCachedWorkshopPrefix = "cached_workshop_settings:"
	KeyProjectDraftPrefix   = "project_draft:"
)

// KeyCachedProjects is the cached project list of one owner.
func KeyCachedProjects(ownerID string) string {
	return keyCachedProjectsPrefix + ownerID
}

// KeyCachedClients is the cached client list of one owner.
func KeyCachedClients(ownerID string) string {
	return keyCachedClientsPrefix + ownerID
}

// KeyCachedWorkshop is the cached workshop settings record of one owner.
func KeyCachedWorkshop(ownerID string) string {
	return keyCachedWorkshopPrefix + ownerID
}

// ILocalCache is the ephemeral, process-local key-value mirror of selected
// store records. Writes are last-write-wins; there is no versioning.

type ILocalCache interface {
	Get(key string) (json.RawMessage, bool)
	Set(key string, value json.RawMessage)
	Remove(key string)
}
