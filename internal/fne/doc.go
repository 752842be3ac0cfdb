// Package fne holds the types shared by every stage of the certification
// pipeline: the enumerations of the e-invoicing API, the typed error kinds and
// the decoded Response value objects.
package fne
