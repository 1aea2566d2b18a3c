// Package services defines the shared error taxonomy for external
// collaborators and houses the collaborator clients in subpackages.
package services
