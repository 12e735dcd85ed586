// Package config provides YAML-based configuration for the Aegis governance
// service.
//
// Configuration is loaded from a single YAML file, with defaults applied for
// unset fields and environment-variable overrides for secrets:
//
//	cfg, err := config.Load("config.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Validation reports every invalid field, not just the first:
//
//	if err := cfg.Validate(); err != nil {
//	    for _, ve := range err.(config.ValidationErrors) {
//	        fmt.Println(ve.Field, ve.Message)
//	    }
//	}
package config
