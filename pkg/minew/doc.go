// Package minew provides a Go client for the Minew cloud ESL platform.
//
// The client covers the store, gateway, label, template and product data
// endpoints of the platform REST API and handles authentication, token
// refresh and error mapping.
//
// # Basic Usage
//
//	client, err := minew.NewClient("username", "password")
//	if err != nil {
//	    return err
//	}
//
//	// List active stores
//	stores, err := client.Store.List(ctx, 1, "")
//
//	// Bind a label to product data
//	msg, err := client.Label.Bind(ctx, "label123", "data123", "store123")
//
// The client logs in lazily on the first API call. Call Login explicitly to
// verify credentials up front:
//
//	if err := client.Login(ctx); err != nil {
//	    return err
//	}
//
// # Error Handling
//
// All failures are reported as *Error with a Kind that distinguishes
// connection, authentication, validation and server problems:
//
//	_, err := client.Store.Add(ctx, req)
//	if err != nil {
//	    if e, ok := minew.AsError(err); ok {
//	        switch {
//	        case e.IsAuth():
//	            // Credentials rejected, re-login will not help
//	        case e.IsValidation():
//	            // Request was malformed, fix the input
//	        }
//	    }
//	    return err
//	}
//
// # Configuration
//
//	client, err := minew.NewClient("username", "password",
//	    minew.WithBaseURL("https://eu.cloud.minewtag.com/apis"),
//	    minew.WithTimeout(30*time.Second),
//	)
//
// For more information, see: https://cloud.minewtag.com
package minew
