// Package ingest parses the dataset documents the engine runs against:
// WSDL/XML service descriptors with embedded QoS blocks, structured
// JSON/YAML/TOML descriptors, composition request documents (standard and
// WSChallenge layouts), and best-known solution documents. A loader walks a
// dataset directory, expanding archive bundles in memory, and feeds the
// catalog, request, and benchmark stores.
//
// Dataset files come from many generators and mix encodings; the XML
// parsers sniff non-UTF-8 input and tolerate missing namespaces rather
// than rejecting documents a human would consider well-formed.
package ingest
