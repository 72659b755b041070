// Package hopx provides a Go client SDK for Hopx, a cloud sandbox platform
// for running untrusted code in ephemeral VMs.
//
// The SDK creates sandboxes, runs commands and interactive PTYs inside them,
// manipulates files and environment variables, drives desktop automation,
// and builds custom VM templates. All heavy lifting happens server-side;
// this package issues authenticated HTTP and WebSocket requests and maps
// responses into typed values.
//
// Basic usage:
//
//	client, err := hopx.New("your-api-key")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	sandbox, err := client.CreateSandbox(ctx, "base")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer sandbox.Kill(ctx)
//
//	result, err := sandbox.Commands().Run(ctx, "python3 -c 'print(40 + 2)'")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.Stdout)
//
// The API key can also come from the HOPX_API_KEY environment variable;
// resolution happens once at construction.
package hopx
