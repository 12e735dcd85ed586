// Package advisory explains governance decisions to users. An advisory
// pairs a guidance message with compliant alternatives and educational
// material, classified by severity. Model-generated content enriches the
// deterministic templates and is never required for an advisory to be
// produced.
package advisory
