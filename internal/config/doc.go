// Package config provides configuration parsing for weft projects.
//
// The configuration is stored in weft.json at the project root. weft.yaml
// and weft.yml are read too, in that order, when weft.json is absent.
//
// # Configuration File Structure
//
//	{
//	  "name": "counter",
//	  "scheduler": {
//	    "idleTimeout": "50ms",
//	    "debug": false
//	  },
//	  "server": {
//	    "host": "localhost",
//	    "port": 3000,
//	    "live": "/live",
//	    "metrics": true,
//	    "tracing": false
//	  },
//	  "export": {
//	    "bucket": "my-site",
//	    "region": "us-east-1",
//	    "prefix": "preview/",
//	    "pretty": true
//	  }
//	}
//
// # Usage
//
//	cfg, err := config.Load(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Println("Listening on", cfg.Address())
package config
