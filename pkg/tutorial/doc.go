// Package tutorial defines the data model shared by every stage of the
// compiler: the Skeleton read from the course metadata file, the Tutorial
// document produced by a build, and the configuration blocks both share.
//
// Values in this package are plain data. Stages never mutate a value they
// received; they build new records, using the Clone helpers when a nested
// block has to be carried over from one document to another.
package tutorial
