package hstrat

// Version is written into records produced by this module.
const Version = "0.3.0"
