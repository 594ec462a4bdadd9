// Package library defines the screenshot image file store.
package library

// Provider is the interface for image byte storage.
type Provider interface {
	// Save stores image bytes under a content-addressed filename derived
	// from the data and the original file's extension, and returns that
	// filename. Saving identical bytes twice yields the same name.
	Save(origName string, data []byte) (string, error)
	// Read returns the raw bytes of the stored image.
	Read(name string) ([]byte, error)
	// List returns the filenames of every stored image.
	List() ([]string, error)
	// Delete removes a stored image.
	Delete(name string) error
}
