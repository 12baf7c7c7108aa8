package domain

// AllLabel is the row tag counting every issue regardless of labels.
const AllLabel = "ALL"
