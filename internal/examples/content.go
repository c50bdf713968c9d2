// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package examples

import "github.com/jeranaias/threadchat/internal/model"

var mongodbMessages = []model.Message{
	model.NewAssistantMessage(Welcome),
	model.NewUserMessage("Show me the MongoDB sessions for this conference, please."),
	model.NewAssistantMessage(`There are two MongoDB-related sessions at AWS re:Invent 2024:

1. **"Building your AI stack with MongoDB, Anyscale, Cohere & Fireworks AI"** (AIM104-S)
* Date: December 4, 2024
* Time: 13:00 - 14:00
* Location: Wynn | Upper Convention Promenade | Bollinger
* Type: Breakout session (sponsored by MongoDB)
* Abstract: This session features a panel discussion with founders and engineering leaders from MongoDB, Anyscale, Cohere, and Fireworks AI. They will discuss how AI has changed their businesses, factors to consider when building LLM applications, and lessons learned from building AI tools and technologies.

2. **"Deep dive into Amazon DocumentDB and its innovations"** (DAT324)
* Date: December 3, 2024
* Time: 16:30 - 17:30
* Location: Wynn | Level 1 | Lafite 4 | Content Hub | Orange Screen
* Type: Breakout session
* Abstract: While not specifically about MongoDB, this session focuses on Amazon DocumentDB, which has MongoDB compatibility. It covers new features of Amazon DocumentDB, including global cluster failover, global cluster switchover, compression, and the latest query APIs.`),
	model.NewUserMessage("I am a developer advocate. Which one is most helpful for me?"),
	model.NewAssistantMessage(`As a developer advocate, I would recommend attending the session:

> **"Building your AI stack with MongoDB, Anyscale, Cohere & Fireworks AI"** (AIM104-S)
> * Date: December 4, 2024
> * Time: 13:00 - 14:00
> * Location: Wynn | Upper Convention Promenade | Bollinger

This session is likely to be more helpful for you as a developer advocate for several reasons:

1. **Broader perspective:** The panel includes leaders from multiple companies (MongoDB, Anyscale, Cohere, and Fireworks AI), giving you a wider view of the AI ecosystem and how different technologies integrate.

2. **AI focus:** As AI is a hot topic in tech, understanding its intersection with databases like MongoDB will be valuable for engaging with developers and showcasing cutting-edge applications.

3. **Industry insights:** You'll gain insight into how AI is changing businesses, which is crucial for advocating to developers about future trends and opportunities.

4. **Practical knowledge:** The session covers lessons learned in building AI tools and technologies, which you can share with your developer community.

5. **Future-oriented:** Discussion on what's coming next in AI will help you prepare developers for upcoming changes and opportunities in the field.

6. **Q&A opportunity:** As a developer advocate, you can use this session to gather information and ask questions that will benefit the developers you work with.

This session aligns well with a developer advocate's role of staying informed about industry trends, understanding practical applications, and gathering insights to share with the developer community.`),
}

var awsMessages = []model.Message{
	model.NewAssistantMessage(Welcome),
	model.NewUserMessage("Which sessions should I visit if my main interest is DevOps on AWS?"),
	model.NewAssistantMessage(`If your main interest is DevOps on AWS, I recommend the following sessions at AWS re:Invent 2024:

1. **"Supercharge your DevOps practices with generative AI"** (DEV321)
* Date: December 2, 2024
* Time: 10:00 - 11:00
* Location: Venetian | Level 3 | Murano 3304

This session focuses on how generative AI can revolutionize DevOps practices, improving deployment frequency, reducing lead time for changes, and minimizing service disruptions. It includes live demos of Amazon Q and Amazon Bedrock to streamline workflows and automate tasks.

2. **"Supercharge your innovation: Automate for operational excellence"** (SUP307)
* Date: December 5, 2024
* Time: 11:30 - 12:30
* Location: MGM Grand | Level 1 | Grand 119

This session covers AWS best practices for streamlining operations and optimizing costs. It explores AWS's own automation practices and strategies to drive growth and innovation, with real operational use cases.

3. **"Building the future of cloud operations at any scale"** (COP202-INT)
* Date: December 2, 2024
* Time: 09:00 - 10:00
* Location: Venetian | Level 5 | Palazzo Ballroom B

While not explicitly labeled as DevOps, this session addresses key DevOps concerns such as improving efficiency, enhancing security and compliance, and making operations more intelligent and agile.

4. **"Reimagining the developer experience at AWS"** (DOP220-INT)
* Date: December 5, 2024
* Time: 14:00 - 15:00
* Location: Venetian | Level 5 | Palazzo Ballroom B

This session explores how generative AI is transforming software development, which is crucial for modern DevOps practices. It covers cloud-native innovation and the integration of AI agents across the development lifecycle.

These sessions cover a range of DevOps topics, from automation and operational excellence to the integration of AI in DevOps practices, providing a comprehensive view of DevOps on AWS.`),
	model.NewUserMessage("If I only have time for one, which one would you choose and why?"),
	model.NewAssistantMessage(`If you only have time for one session, I would recommend:

> **"Supercharge your DevOps practices with generative AI"** (DEV321)
> * Date: December 2, 2024
> * Time: 10:00 - 11:00
> * Location: Venetian | Level 3 | Murano 3304

Here's why this session stands out:

1. **Direct DevOps Focus:** This session is specifically tailored to DevOps practices, which aligns perfectly with your main interest.

2. **Cutting-edge Technology:** It explores the integration of generative AI into DevOps, which is at the forefront of DevOps evolution. This knowledge will be crucial for staying ahead in the field.

3. **Practical Demonstrations:** The session includes live demos of Amazon Q and Amazon Bedrock, providing hands-on insights into how these tools can be applied in real DevOps scenarios.

4. **Comprehensive Coverage:** It addresses key DevOps metrics like deployment frequency, lead time for changes, service disruptions, and change failure rates. This comprehensive approach covers the full spectrum of DevOps concerns.

5. **Actionable Takeaways:** The session promises to provide practical strategies for harnessing generative AI in DevOps, which you can potentially implement in your own work.

6. **AWS-Specific Tools:** By focusing on Amazon Q and Amazon Bedrock, you'll gain insights into AWS-specific tools that can enhance your DevOps practices on the AWS platform.

7. **Future-Oriented:** Understanding how generative AI is transforming DevOps will prepare you for the future of cloud operations and development practices.

This session offers a blend of cutting-edge technology, practical applications, and AWS-specific knowledge, making it the most valuable choice if you can only attend one DevOps-focused session at re:Invent 2024.`),
	model.NewUserMessage("Anything about Infrastructure-as-code?"),
	model.NewAssistantMessage(`I apologize, but I couldn't find any sessions specifically dedicated to Infrastructure-as-Code (IaC) in the search results provided. However, this doesn't necessarily mean there are no IaC-related sessions at AWS re:Invent 2024. IaC is an important topic in cloud computing and DevOps, so it's likely to be covered in some capacity.

Here are a few suggestions:

1. The session **"Reimagining the developer experience at AWS"** (DOP220-INT) might touch on IaC as part of the broader discussion on software development practices and cloud-native innovation.

2. **"Compute innovation for any application, anywhere"** (CMP215-INT) could potentially include information about IaC in the context of managing infrastructure for various compute options.

3. IaC principles might be discussed in DevOps-focused sessions like **"Supercharge your DevOps practices with generative AI"** (DEV321), which we discussed earlier.

To find sessions specifically about Infrastructure-as-Code, I recommend:

* Check the full AWS re:Invent 2024 agenda when it becomes available, as it may have more detailed session descriptions.
* Look for sessions related to AWS CloudFormation, AWS CDK (Cloud Development Kit), or Terraform, as these are popular IaC tools used with AWS.
* Consider attending broader DevOps or cloud architecture sessions, as IaC is often covered as part of these topics.
* Visit the AWS booth or attend Q&A sessions where you can ask AWS experts about IaC best practices and tools.

If IaC is a crucial topic for you, it might be worth reaching out to AWS re:Invent organizers directly to inquire about any sessions or workshops focusing on this area.`),
}
